package quantity

import "time"

// Direction is the sign of a press-and-hold step.
type Direction int

const (
	Down Direction = -1
	Up   Direction = +1
)

// String returns "up" or "down".
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// normalize maps any non-zero integer to Up or Down.
func normalize(d Direction) Direction {
	switch {
	case d > 0:
		return Up
	case d < 0:
		return Down
	default:
		return 0
	}
}

// Repeater turns a held press into a step every interval.
//
// The first repeat fires one interval after Begin; the click that
// started the press applies its own step independently. Each tick re-arms
// the timer, so at most one timer is live per session. As with Debouncer,
// the timer callback only reports its generation through trigger and the
// owner calls Tick under its lock.
//
// Repeater is not safe for concurrent use.
type Repeater struct {
	clock    Clock
	interval time.Duration
	trigger  func(gen uint64)

	timer     Timer
	gen       uint64
	active    bool
	direction Direction
}

// NewRepeater creates an inactive repeater.
func NewRepeater(clock Clock, interval time.Duration, trigger func(gen uint64)) *Repeater {
	if clock == nil {
		clock = WallClock()
	}
	if interval <= 0 {
		interval = DefaultRepeatInterval
	}
	return &Repeater{
		clock:    clock,
		interval: interval,
		trigger:  trigger,
	}
}

// Begin starts a session in direction. It is a no-op, returning false,
// when a session is already active or direction is zero.
func (r *Repeater) Begin(direction Direction) bool {
	dir := normalize(direction)
	if r.active || dir == 0 {
		return false
	}
	r.active = true
	r.direction = dir
	r.arm()
	return true
}

// End cancels the active session. It returns false when none was active.
func (r *Repeater) End() bool {
	if !r.active {
		return false
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	r.active = false
	r.direction = 0
	return true
}

// Tick consumes the timer firing for gen and re-arms the next one.
// It returns the step direction, or false when gen is stale.
func (r *Repeater) Tick(gen uint64) (Direction, bool) {
	if !r.active || gen != r.gen {
		return 0, false
	}
	r.gen++
	r.arm()
	return r.direction, true
}

// Active reports whether a session is running.
func (r *Repeater) Active() bool {
	return r.active
}

// Direction returns the active direction, or zero when idle.
func (r *Repeater) Direction() Direction {
	return r.direction
}

// Interval returns the repeat cadence.
func (r *Repeater) Interval() time.Duration {
	return r.interval
}

func (r *Repeater) arm() {
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.interval, func() {
		if r.trigger != nil {
			r.trigger(gen)
		}
	})
}
