package quantity

import (
	"strconv"
	"sync"
	"time"

	"github.com/billie-coop/stepper/internal/events"
	"github.com/billie-coop/stepper/internal/metrics"
	"go.uber.org/zap"
)

// Stepper is one bounded quantity control.
//
// It owns a State, a Debouncer, a Repeater and the Channel that carries
// settled events. A single mutex serializes user intents and timer
// callbacks, so each event runs to completion before the next one.
// Settled handlers run after the mutex is released and may call back
// into the Stepper.
type Stepper struct {
	mu sync.Mutex

	name   string
	clock  Clock
	logger *zap.Logger
	stats  *metrics.Metrics

	state    *State
	debounce *Debouncer
	repeat   *Repeater
	updates  *events.Channel

	// rawAjax holds an unparsable quantity_ajax as written.
	rawAjax string
	closed  bool
}

// Option configures a Stepper.
type Option func(*options)

type options struct {
	name           string
	clock          Clock
	quietPeriod    time.Duration
	repeatInterval time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// WithName labels the stepper in logs, metrics and events.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithQuietPeriod sets the debounce window.
func WithQuietPeriod(d time.Duration) Option {
	return func(o *options) { o.quietPeriod = d }
}

// WithRepeatInterval sets the press-and-hold cadence.
func WithRepeatInterval(d time.Duration) Option {
	return func(o *options) { o.repeatInterval = d }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records activity into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a stepper from settings. The initial quantity is the first
// observation and becomes the committed baseline, so it never produces
// a settled event on its own.
func New(settings Settings, opts ...Option) *Stepper {
	o := options{
		name:           "stepper",
		clock:          WallClock(),
		quietPeriod:    DefaultQuietPeriod,
		repeatInterval: DefaultRepeatInterval,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Stepper{
		name:    o.name,
		clock:   o.clock,
		logger:  o.logger.With(zap.String("stepper", o.name)),
		stats:   o.metrics,
		updates: events.NewChannel(),
	}
	s.debounce = NewDebouncer(o.clock, o.quietPeriod, s.settle)
	s.repeat = NewRepeater(o.clock, o.repeatInterval, s.tick)
	s.state = NewState(settings.Quantity, settings.Min, settings.Max, func(value int) {
		s.debounce.Schedule(value)
	})

	// Initial write of the quantity attribute
	s.debounce.Schedule(s.state.Value())

	s.logger.Debug("stepper created",
		zap.Int("quantity", s.state.Value()),
		zap.Int("min", settings.Min),
		zap.Int("max", settings.Max),
	)
	return s
}

// NewFromAttributes creates a stepper from raw attribute strings.
// A non-empty quantity_ajax attribute overrides the baseline.
func NewFromAttributes(attrs map[string]string, opts ...Option) *Stepper {
	s := New(SettingsFromAttributes(attrs), opts...)
	if raw, ok := attrs[AttrQuantityAjax]; ok {
		s.SetAttribute(AttrQuantityAjax, raw)
	}
	return s
}

// Name returns the stepper's label.
func (s *Stepper) Name() string {
	return s.name
}

// Increment applies +1.
func (s *Stepper) Increment() int {
	return s.apply(1, "increment")
}

// Decrement applies -1.
func (s *Stepper) Decrement() int {
	return s.apply(-1, "decrement")
}

// Apply moves the quantity by delta within bounds and restarts the
// quiet period. It returns the stored value.
func (s *Stepper) Apply(delta int) int {
	return s.apply(delta, "apply")
}

// Set writes the quantity from outside, as the presentation layer does
// when the user types a value. Only a changed value restarts the quiet
// period.
func (s *Stepper) Set(value int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state.Value()
	}
	if s.state.Set(value) {
		s.stats.RecordIntent(s.name, "set", s.state.Value())
		s.logger.Debug("quantity set", zap.Int("quantity", s.state.Value()))
	}
	return s.state.Value()
}

// SetBounds replaces min and max. The current quantity is not re-clamped
// until the next intent.
func (s *Stepper) SetBounds(min, max int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SetBounds(min, max)
	s.logger.Debug("bounds changed", zap.Int("min", min), zap.Int("max", max))
}

// Bounds returns the current min and max.
func (s *Stepper) Bounds() (min, max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Bounds()
}

// Value returns the current quantity.
func (s *Stepper) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Value()
}

// BeginRepeat starts press-and-hold in direction. It does nothing while
// another press is held.
func (s *Stepper) BeginRepeat(direction Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	started := s.repeat.Begin(direction)
	if started {
		s.logger.Debug("repeat started", zap.Stringer("direction", s.repeat.Direction()))
	}
	return started
}

// EndRepeat releases the held press. Calling it with no press held is a
// no-op.
func (s *Stepper) EndRepeat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repeat.End() {
		s.logger.Debug("repeat stopped", zap.Int("quantity", s.state.Value()))
	}
}

// Repeating reports whether a press is held.
func (s *Stepper) Repeating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repeat.Active()
}

// OnSettled subscribes handler to settled events and returns a function
// that unsubscribes it.
func (s *Stepper) OnSettled(handler events.Handler) (unsubscribe func()) {
	return s.updates.Subscribe(handler)
}

// Snapshot is a consistent view of a stepper's state.
type Snapshot struct {
	Name             string
	Quantity         int
	Min              int
	Max              int
	Committed        int
	HasCommitted     bool
	// CommittedUnknown is set while quantity_ajax holds a non-number.
	CommittedUnknown bool
	Debounce         DebounceState
	Repeating        bool
	Direction        Direction
	Closed           bool
}

// Dirty reports whether the quantity differs from the committed value.
func (s Snapshot) Dirty() bool {
	return s.HasCommitted && (s.CommittedUnknown || s.Quantity != s.Committed)
}

// Snapshot returns the current state.
func (s *Stepper) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := s.state.Bounds()
	committed, ok := s.debounce.Committed()
	return Snapshot{
		Name:             s.name,
		Quantity:         s.state.Value(),
		Min:              lo,
		Max:              hi,
		Committed:        committed,
		HasCommitted:     ok,
		CommittedUnknown: s.debounce.CommittedUnknown(),
		Debounce:         s.debounce.State(),
		Repeating:        s.repeat.Active(),
		Direction:        s.repeat.Direction(),
		Closed:           s.closed,
	}
}

// SetAttribute writes one of the observed attributes.
//
// quantity behaves like Set; min and max update the bounds, falling back
// to the defaults on unparsable input; quantity_ajax overwrites the
// committed value. An unparsable quantity_ajax, including "", stays
// present and differs from every quantity. Unknown names are ignored.
func (s *Stepper) SetAttribute(name, value string) {
	switch name {
	case AttrQuantity:
		s.Set(ParseIntOr(value, DefaultQuantity))
	case AttrMin:
		_, hi := s.Bounds()
		s.SetBounds(s.parseLogged(name, value, DefaultMin), hi)
	case AttrMax:
		lo, _ := s.Bounds()
		s.SetBounds(lo, s.parseLogged(name, value, DefaultMax))
	case AttrQuantityAjax:
		s.mu.Lock()
		defer s.mu.Unlock()
		if n, err := ParseInt(value); err == nil {
			s.debounce.SetCommitted(n)
			s.rawAjax = ""
		} else {
			s.debounce.SetCommittedUnknown()
			s.rawAjax = value
		}
	}
}

// Attribute reads an observed attribute. quantity_ajax is absent until
// a baseline exists.
func (s *Stepper) Attribute(name string) (string, bool) {
	snap := s.Snapshot()
	s.mu.Lock()
	rawAjax := s.rawAjax
	s.mu.Unlock()

	switch name {
	case AttrQuantity:
		return strconv.Itoa(snap.Quantity), true
	case AttrMin:
		return strconv.Itoa(snap.Min), true
	case AttrMax:
		return strconv.Itoa(snap.Max), true
	case AttrQuantityAjax:
		if !snap.HasCommitted {
			return "", false
		}
		if snap.CommittedUnknown {
			return rawAjax, true
		}
		return strconv.Itoa(snap.Committed), true
	}
	return "", false
}

// RemoveAttribute removes min, max or quantity_ajax. Removing a bound
// restores its default; removing quantity_ajax re-arms baseline capture
// on the next change.
func (s *Stepper) RemoveAttribute(name string) {
	switch name {
	case AttrMin:
		_, hi := s.Bounds()
		s.SetBounds(DefaultMin, hi)
	case AttrMax:
		lo, _ := s.Bounds()
		s.SetBounds(lo, DefaultMax)
	case AttrQuantityAjax:
		s.mu.Lock()
		defer s.mu.Unlock()
		s.debounce.ClearCommitted()
		s.rawAjax = ""
	}
}

// Close tears the stepper down. Both timers are cancelled before Close
// returns and no callback starts afterwards; later intents are ignored.
// A settle already delivering calls no further handlers, but a handler
// that is running when Close returns may still finish. Close may be
// called from a settled handler.
func (s *Stepper) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.repeat.End()
	s.debounce.Cancel()
	s.mu.Unlock()

	s.updates.Clear()
	s.stats.Forget(s.name)
	s.logger.Debug("stepper closed")
}

func (s *Stepper) apply(delta int, kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state.Value()
	}
	value := s.state.Apply(delta)
	s.stats.RecordIntent(s.name, kind, value)
	s.logger.Debug("quantity applied",
		zap.String("kind", kind),
		zap.Int("delta", delta),
		zap.Int("quantity", value),
	)
	return value
}

// tick runs on the repeater's timer.
func (s *Stepper) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	dir, ok := s.repeat.Tick(gen)
	if !ok {
		return
	}
	value := s.state.Apply(int(dir))
	s.stats.RecordIntent(s.name, "repeat", value)
}

// settle runs on the debouncer's timer.
func (s *Stepper) settle(gen uint64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	result, ok := s.debounce.Elapse(gen, s.state.Value())
	s.mu.Unlock()

	if !ok {
		return
	}
	s.stats.RecordSettle(s.name, result.Outcome.String())

	if result.Outcome != OutcomeChanged {
		s.logger.Debug("quantity settled without change",
			zap.Stringer("outcome", result.Outcome),
			zap.Int("quantity", result.Value),
		)
		return
	}

	s.logger.Info("quantity settled",
		zap.Int("quantity", result.Value),
		zap.Int("previous", result.Previous),
	)
	err := s.updates.Notify(events.Settled{
		Type:     events.UpdateEvent,
		Source:   s.name,
		Value:    result.Value,
		Previous: result.Previous,
		At:       time.Now(),
	})
	if err != nil {
		s.stats.RecordHandlerError(s.name)
		s.logger.Error("settled handler failed", zap.Error(err))
	}
}

func (s *Stepper) parseLogged(name, value string, def int) int {
	n, err := ParseInt(value)
	if err != nil {
		s.logger.Debug("attribute fallback",
			zap.String("attribute", name),
			zap.Int("default", def),
			zap.Error(err),
		)
		return def
	}
	return n
}
