package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
)

// Theme holds the semantic colors of the stepper UI
type Theme struct {
	Name string

	Primary   color.Color
	Secondary color.Color
	Accent    color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color
	BgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Warning color.Color
	Error   color.Color

	styles *Styles
}

// Styles are the lipgloss styles derived from a Theme
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Selected lipgloss.Style

	Button        lipgloss.Style
	ButtonPressed lipgloss.Style
	Value         lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Panel lipgloss.Style
}

// S returns the theme's styles, building them on first use
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Title:  base.Foreground(t.Accent).Bold(true).MarginBottom(1),
		Text:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),
		Selected: base.
			Foreground(t.Primary).
			Bold(true),

		Button: base.
			Background(t.BgSubtle).
			Padding(0, 1),
		ButtonPressed: base.
			Background(t.Primary).
			Foreground(t.BgSubtle).
			Bold(true).
			Padding(0, 1),
		Value: base.
			Bold(true).
			Width(5).
			Align(lipgloss.Center),

		Success: base.Foreground(t.Success),
		Warning: base.Foreground(t.Warning),
		Error:   base.Foreground(t.Error),

		Panel: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

// Fire is the default theme
func Fire() *Theme {
	return &Theme{
		Name:        "fire",
		Primary:     lipgloss.Color("#FF6B35"),
		Secondary:   lipgloss.Color("#F7931E"),
		Accent:      lipgloss.Color("205"),
		FgBase:      lipgloss.Color("#E8E6E3"),
		FgMuted:     lipgloss.Color("245"),
		FgSubtle:    lipgloss.Color("241"),
		BgSubtle:    lipgloss.Color("#2A2A2A"),
		Border:      lipgloss.Color("#444444"),
		BorderFocus: lipgloss.Color("#FF6B35"),
		Success:     lipgloss.Color("#5AF78E"),
		Warning:     lipgloss.Color("#F3F99D"),
		Error:       lipgloss.Color("#FF5C57"),
	}
}

var current = Fire()

// CurrentTheme returns the active theme
func CurrentTheme() *Theme {
	return current
}
