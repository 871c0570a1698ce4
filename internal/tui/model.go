// Package tui is the interactive terminal front end: one row of
// stepper buttons per cart line.
package tui

import (
	"fmt"
	"strings"

	"github.com/billie-coop/stepper/internal/cart"
	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/billie-coop/stepper/internal/tui/styles"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"
)

const maxRecent = 5

// UpdateMsg carries a settled line update into the program. Send it with
// Program.Send from the cart's OnUpdate callback.
type UpdateMsg cart.Update

// Model is the root bubbletea model.
type Model struct {
	cart    *cart.Cart
	keys    KeyMap
	theme   *styles.Theme
	logger  *zap.Logger
	refresh *refresher

	selected int
	held     *cart.Line
	heldDir  quantity.Direction

	showHelp  bool
	helpCache string
	helpWidth int
	status    string
	recent    []cart.Update
	width     int
	height    int
}

// New creates a model over the lines of c.
func New(c *cart.Cart, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		cart:    c,
		keys:    DefaultKeyMap(),
		theme:   styles.CurrentTheme(),
		logger:  logger,
		refresh: newRefresher(DefaultRefreshInterval),
		status:  "ready",
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case UpdateMsg:
		u := cart.Update(msg)
		m.recent = append(m.recent, u)
		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}
		m.status = fmt.Sprintf("sent %s = %d (was %d)", u.Name, u.Quantity, u.Previous)
		return m, nil

	case RefreshMsg:
		if !m.inFlight() {
			m.refresh.Stop()
			return m, nil
		}
		return m, m.refresh.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.release()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return nil
	case key.Matches(msg, m.keys.Increment):
		return m.step(quantity.Up)
	case key.Matches(msg, m.keys.Decrement):
		return m.step(quantity.Down)
	case key.Matches(msg, m.keys.HoldUp):
		return m.hold(quantity.Up)
	case key.Matches(msg, m.keys.HoldDown):
		return m.hold(quantity.Down)
	case key.Matches(msg, m.keys.Release):
		m.release()
		return nil
	}
	return nil
}

// Selected returns the selected line, or nil for an empty cart.
func (m *Model) Selected() *cart.Line {
	lines := m.cart.Lines()
	if len(lines) == 0 {
		return nil
	}
	if m.selected >= len(lines) {
		m.selected = len(lines) - 1
	}
	return lines[m.selected]
}

// move changes the selection. Moving away from a held line releases it,
// the same as the pointer leaving a pressed button.
func (m *Model) move(delta int) {
	n := m.cart.Len()
	if n == 0 {
		return
	}
	m.release()
	m.selected = (m.selected + delta + n) % n
}

func (m *Model) step(dir quantity.Direction) tea.Cmd {
	line := m.Selected()
	if line == nil {
		return nil
	}
	v := line.Stepper.Apply(int(dir))
	m.status = fmt.Sprintf("%s %s → %d", line.Name, dir, v)
	return m.refresh.Start()
}

// hold presses and holds a button on the selected line: one step now and
// repeats until release.
func (m *Model) hold(dir quantity.Direction) tea.Cmd {
	line := m.Selected()
	if line == nil {
		return nil
	}
	if m.held != nil && (m.held != line || m.heldDir != dir) {
		m.release()
	}
	if !line.Stepper.BeginRepeat(dir) {
		return nil
	}
	m.held, m.heldDir = line, dir
	v := line.Stepper.Apply(int(dir))
	m.status = fmt.Sprintf("holding %s %s → %d", line.Name, dir, v)
	m.logger.Debug("hold started", zap.String("line", line.Name), zap.Stringer("direction", dir))
	return m.refresh.Start()
}

func (m *Model) release() {
	if m.held == nil {
		return
	}
	m.held.Stepper.EndRepeat()
	m.status = fmt.Sprintf("released %s at %d", m.held.Name, m.held.Stepper.Value())
	m.held = nil
	m.heldDir = 0
}

// inFlight reports whether any line is repeating or waiting to settle.
func (m *Model) inFlight() bool {
	for _, l := range m.cart.Lines() {
		snap := l.Stepper.Snapshot()
		if snap.Repeating || snap.Debounce == quantity.Pending {
			return true
		}
	}
	return false
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	s := m.theme.S()
	var b strings.Builder

	b.WriteString(s.Title.Render("Stepper"))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
		return b.String()
	}

	lines := m.cart.Lines()
	if len(lines) == 0 {
		b.WriteString(s.Muted.Render("no lines configured"))
		b.WriteString("\n")
	}
	nameWidth := 0
	for _, l := range lines {
		nameWidth = max(nameWidth, lipgloss.Width(l.Name))
	}
	for i, l := range lines {
		b.WriteString(m.renderLine(l, i == m.selected, nameWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Text.Render(fmt.Sprintf("total %d", m.cart.Total())))
	b.WriteString("\n")

	if len(m.recent) > 0 {
		b.WriteString("\n")
		for _, u := range m.recent {
			b.WriteString(s.Subtle.Render(fmt.Sprintf("  %s  %s %d → %d",
				u.At.Format("15:04:05"), u.Name, u.Previous, u.Quantity)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Muted.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.renderShortHelp())
	return b.String()
}

func (m *Model) renderLine(l *cart.Line, selected bool, nameWidth int) string {
	s := m.theme.S()
	snap := l.Stepper.Snapshot()

	cursor := "  "
	name := s.Text.Render(padRight(l.Name, nameWidth))
	if selected {
		cursor = s.Selected.Render("> ")
		name = s.Selected.Render(padRight(l.Name, nameWidth))
	}

	minus, plus := s.Button, s.Button
	if snap.Repeating {
		switch snap.Direction {
		case quantity.Up:
			plus = s.ButtonPressed
		case quantity.Down:
			minus = s.ButtonPressed
		}
	}

	marks := ""
	if snap.Dirty() {
		marks += s.Warning.Render("*")
	}
	if snap.Debounce == quantity.Pending {
		marks += s.Muted.Render("…")
	}

	bounds := s.Subtle.Render(fmt.Sprintf("[%d..%d]", snap.Min, snap.Max))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cursor, name, " ",
		minus.Render("-"),
		s.Value.Render(fmt.Sprintf("%d", snap.Quantity)),
		plus.Render("+"),
		" ", bounds, " ", marks,
	)
}

func (m *Model) renderShortHelp() string {
	s := m.theme.S()
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return s.Subtle.Render(strings.Join(parts, " • "))
}

func (m *Model) renderHelp() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if m.helpCache == "" || m.helpWidth != width {
		m.helpCache = styles.RenderMarkdown(helpMarkdown, width-4)
		m.helpWidth = width
	}
	return m.helpCache
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
