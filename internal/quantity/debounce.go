package quantity

import "time"

// DebounceState is the state of a Debouncer.
type DebounceState uint8

const (
	// Idle means no quiet-period timer is running.
	Idle DebounceState = iota

	// Pending means a quiet-period timer is running.
	Pending
)

// String returns a human-readable state name.
func (s DebounceState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Pending:
		return "PENDING"
	default:
		return "UNKNOWN"
	}
}

// Outcome describes what happened when a quiet period elapsed.
type Outcome uint8

const (
	// OutcomeBaseline means no value had been committed yet; the settled
	// value became the baseline without a notification.
	OutcomeBaseline Outcome = iota

	// OutcomeUnchanged means the settled value equals the last commit.
	OutcomeUnchanged

	// OutcomeChanged means the settled value differs and must be notified.
	OutcomeChanged
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeBaseline:
		return "baseline"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Settle is the result of a quiet period elapsing.
type Settle struct {
	Outcome  Outcome
	Value    int
	Previous int // last committed value; zero for OutcomeBaseline
}

// Debouncer decides when a quantity has settled and whether the settled
// value differs from the last committed one.
//
// Every Schedule cancels the running timer and starts a new one, so a
// burst of changes produces a single elapse after the last change.
// The timer callback does not touch the Debouncer; it calls trigger with
// the generation it was started for, and the owner is expected to call
// Elapse with that generation under its own lock. Stale generations are
// discarded.
//
// Debouncer is not safe for concurrent use.
type Debouncer struct {
	clock   Clock
	quiet   time.Duration
	trigger func(gen uint64)

	timer Timer
	gen   uint64
	state DebounceState

	committed    int
	hasCommitted bool
	// unknown marks a commit that is present but not a number; it never
	// equals a settled value.
	unknown bool
}

// NewDebouncer creates a debouncer in the Idle state with no commit.
func NewDebouncer(clock Clock, quiet time.Duration, trigger func(gen uint64)) *Debouncer {
	if clock == nil {
		clock = WallClock()
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		clock:   clock,
		quiet:   quiet,
		trigger: trigger,
	}
}

// Schedule restarts the quiet period for a change to current.
//
// The first observation with no commit records current as the baseline
// and starts no timer. It returns true when a timer was started.
func (d *Debouncer) Schedule(current int) bool {
	d.stop()

	if !d.hasCommitted {
		d.committed = current
		d.hasCommitted = true
		return false
	}

	gen := d.gen
	d.state = Pending
	d.timer = d.clock.AfterFunc(d.quiet, func() {
		if d.trigger != nil {
			d.trigger(gen)
		}
	})
	return true
}

// Elapse resolves the quiet period started for gen against the current
// value. It returns false when gen is stale (cancelled or superseded).
func (d *Debouncer) Elapse(gen uint64, current int) (Settle, bool) {
	if d.state != Pending || gen != d.gen {
		return Settle{}, false
	}

	d.timer = nil
	d.gen++
	d.state = Idle

	if !d.hasCommitted {
		d.committed = current
		d.hasCommitted = true
		return Settle{Outcome: OutcomeBaseline, Value: current}, true
	}

	previous := d.committed
	wasUnknown := d.unknown
	d.committed = current
	d.unknown = false
	if current == previous && !wasUnknown {
		return Settle{Outcome: OutcomeUnchanged, Value: current, Previous: previous}, true
	}
	return Settle{Outcome: OutcomeChanged, Value: current, Previous: previous}, true
}

// Cancel stops any running timer and returns to Idle.
func (d *Debouncer) Cancel() {
	d.stop()
}

// State returns Idle or Pending.
func (d *Debouncer) State() DebounceState {
	return d.state
}

// Committed returns the last committed value and whether one exists.
func (d *Debouncer) Committed() (int, bool) {
	return d.committed, d.hasCommitted
}

// SetCommitted overwrites the last committed value.
func (d *Debouncer) SetCommitted(value int) {
	d.committed = value
	d.hasCommitted = true
	d.unknown = false
}

// SetCommittedUnknown records a commit whose value is not a number. The
// next settle always reports a change.
func (d *Debouncer) SetCommittedUnknown() {
	d.committed = 0
	d.hasCommitted = true
	d.unknown = true
}

// CommittedUnknown reports whether the commit is present but not a number.
func (d *Debouncer) CommittedUnknown() bool {
	return d.unknown
}

// ClearCommitted forgets the last commit; the next observation becomes
// the new baseline.
func (d *Debouncer) ClearCommitted() {
	d.committed = 0
	d.hasCommitted = false
	d.unknown = false
}

// QuietPeriod returns the configured quiet period.
func (d *Debouncer) QuietPeriod() time.Duration {
	return d.quiet
}

// stop cancels the running timer and invalidates its generation.
func (d *Debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.state = Idle
}
