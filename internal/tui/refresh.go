package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// DefaultRefreshInterval is how often the view is redrawn while a line is
// held or pending.
const DefaultRefreshInterval = 50 * time.Millisecond

// RefreshMsg asks the model to redraw. Stepper timers change values off
// the program's goroutine, so the view polls while anything is in flight.
type RefreshMsg struct {
	Time time.Time
	ID   int
}

// refresher ticks while running. Each Start bumps the id so that ticks
// from an earlier run are dropped instead of doubling the rate.
type refresher struct {
	interval time.Duration
	running  bool
	id       int
}

func newRefresher(interval time.Duration) *refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &refresher{interval: interval}
}

// Start begins ticking. It is a no-op while already running.
func (r *refresher) Start() tea.Cmd {
	if r.running {
		return nil
	}
	r.running = true
	r.id++
	return r.tick()
}

// Stop halts ticking after the tick in flight.
func (r *refresher) Stop() {
	r.running = false
}

// Running reports whether ticks are being scheduled.
func (r *refresher) Running() bool {
	return r.running
}

// Update continues ticking on its own RefreshMsg.
func (r *refresher) Update(msg tea.Msg) tea.Cmd {
	if tick, ok := msg.(RefreshMsg); ok && tick.ID == r.id && r.running {
		return r.tick()
	}
	return nil
}

func (r *refresher) tick() tea.Cmd {
	id := r.id
	return tea.Tick(r.interval, func(t time.Time) tea.Msg {
		return RefreshMsg{Time: t, ID: id}
	})
}
