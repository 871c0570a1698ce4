// Package cart groups independent steppers as the line items of an
// order and records the update each settled quantity would send.
//
// The cart stands in for the consuming application: it subscribes to
// every line's settled events and turns them into Update records. It
// never performs a network call itself; OnUpdate hands each record to
// whoever does.
package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/billie-coop/stepper/internal/config"
	"github.com/billie-coop/stepper/internal/events"
	"github.com/billie-coop/stepper/internal/metrics"
	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrDuplicateLine is returned when a line name is already in use.
var ErrDuplicateLine = errors.New("line already exists")

// Line is one item in the cart.
type Line struct {
	ID      uuid.UUID
	Name    string
	Stepper *quantity.Stepper

	unsubscribe func()
}

// Update is the request the cart would send for a settled line.
type Update struct {
	ID       uuid.UUID
	LineID   uuid.UUID
	Name     string
	Quantity int
	Previous int
	At       time.Time
}

// Cart holds lines in insertion order.
type Cart struct {
	mu      sync.RWMutex
	lines   []*Line
	byID    map[uuid.UUID]*Line
	journal []Update

	onUpdate func(Update) error

	clock   quantity.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Cart.
type Option func(*Cart)

// WithClock sets the clock handed to every line's stepper.
func WithClock(clock quantity.Clock) Option {
	return func(c *Cart) { c.clock = clock }
}

// WithLogger sets the logger for the cart and its lines.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cart) { c.logger = logger }
}

// WithMetrics records stepper metrics for every line.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cart) { c.metrics = m }
}

// New creates an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		byID:   make(map[uuid.UUID]*Line),
		clock:  quantity.WallClock(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig creates a cart with one line per configured line.
func FromConfig(cfg *config.Config, opts ...Option) (*Cart, error) {
	c := New(opts...)
	for _, line := range cfg.ResolvedLines() {
		if _, err := c.Add(line.Name, cfg.LineSettings(line), cfg.Options()...); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// OnUpdate sets the function called for every recorded update. An error
// it returns is propagated to the line's stepper, which logs it.
func (c *Cart) OnUpdate(fn func(Update) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

// Add creates a line with its own stepper.
func (c *Cart) Add(name string, settings quantity.Settings, opts ...quantity.Option) (*Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range c.lines {
		if l.Name == name {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLine, name)
		}
	}

	stepperOpts := append([]quantity.Option{
		quantity.WithName(name),
		quantity.WithClock(c.clock),
		quantity.WithLogger(c.logger),
		quantity.WithMetrics(c.metrics),
	}, opts...)

	line := &Line{
		ID:      uuid.New(),
		Name:    name,
		Stepper: quantity.New(settings, stepperOpts...),
	}
	line.unsubscribe = line.Stepper.OnSettled(func(ev events.Settled) error {
		return c.record(line, ev)
	})

	c.lines = append(c.lines, line)
	c.byID[line.ID] = line

	c.logger.Debug("line added",
		zap.String("line", name),
		zap.Stringer("id", line.ID),
		zap.Int("quantity", line.Stepper.Value()),
	)
	return line, nil
}

// Remove tears down a line's stepper and drops it. It returns false for
// an unknown id.
func (c *Cart) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	line, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.byID, id)
	for i, l := range c.lines {
		if l.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	line.unsubscribe()
	line.Stepper.Close()
	return true
}

// Line returns the line with the given id.
func (c *Cart) Line(id uuid.UUID) (*Line, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	line, ok := c.byID[id]
	return line, ok
}

// LineByName returns the line with the given name.
func (c *Cart) LineByName(name string) (*Line, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.lines {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Lines returns the lines in insertion order.
func (c *Cart) Lines() []*Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// Total sums every line's current quantity.
func (c *Cart) Total() int {
	total := 0
	for _, l := range c.Lines() {
		total += l.Stepper.Value()
	}
	return total
}

// Journal returns every recorded update, oldest first.
func (c *Cart) Journal() []Update {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Update, len(c.journal))
	copy(out, c.journal)
	return out
}

// ApplyConfig pushes configured bounds to existing lines, matched by
// name. Lines are not added or removed and quantities are not
// re-clamped until their next intent.
func (c *Cart) ApplyConfig(cfg *config.Config) {
	byName := make(map[string]config.LineConfig)
	for _, l := range cfg.ResolvedLines() {
		byName[l.Name] = l
	}

	for _, line := range c.Lines() {
		lc, ok := byName[line.Name]
		if !ok {
			lc = config.LineConfig{Name: line.Name}
		}
		s := cfg.LineSettings(lc)
		line.Stepper.SetBounds(s.Min, s.Max)
		c.logger.Info("line bounds reloaded",
			zap.String("line", line.Name),
			zap.Int("min", s.Min),
			zap.Int("max", s.Max),
		)
	}
}

// Close tears down every line.
func (c *Cart) Close() {
	for _, line := range c.Lines() {
		c.Remove(line.ID)
	}
}

func (c *Cart) record(line *Line, ev events.Settled) error {
	update := Update{
		ID:       uuid.New(),
		LineID:   line.ID,
		Name:     line.Name,
		Quantity: ev.Value,
		Previous: ev.Previous,
		At:       ev.At,
	}

	c.mu.Lock()
	c.journal = append(c.journal, update)
	fn := c.onUpdate
	c.mu.Unlock()

	c.logger.Info("line update recorded",
		zap.String("line", line.Name),
		zap.Int("quantity", update.Quantity),
		zap.Stringer("update_id", update.ID),
	)

	if fn == nil {
		return nil
	}
	return fn(update)
}
