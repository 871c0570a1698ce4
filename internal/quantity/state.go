package quantity

// State holds the authoritative quantity and its bounds.
//
// State is not safe for concurrent use; a Stepper serializes access.
type State struct {
	value int
	min   int
	max   int

	// Called after every stored mutation with the new value.
	onWrite func(value int)
}

// NewState creates a state with the given bounds. The initial value is
// clamped into range but onWrite is not called for it.
func NewState(value, min, max int, onWrite func(value int)) *State {
	return &State{
		value:   Clamp(value, 0, min, max),
		min:     min,
		max:     max,
		onWrite: onWrite,
	}
}

// Apply moves the quantity by delta within the current bounds and
// signals onWrite, even when the clamped result equals the old value.
func (s *State) Apply(delta int) int {
	s.value = Clamp(s.value, delta, s.min, s.max)
	if s.onWrite != nil {
		s.onWrite(s.value)
	}
	return s.value
}

// Set stores an externally supplied quantity, clamped into range.
// onWrite fires only when the stored value changes.
func (s *State) Set(value int) bool {
	next := Clamp(value, 0, s.min, s.max)
	if next == s.value {
		return false
	}
	s.value = next
	if s.onWrite != nil {
		s.onWrite(s.value)
	}
	return true
}

// SetBounds replaces the bounds. The stored quantity is left as is until
// the next Apply.
func (s *State) SetBounds(min, max int) {
	s.min = min
	s.max = max
}

// Value returns the current quantity.
func (s *State) Value() int {
	return s.value
}

// Bounds returns the current min and max.
func (s *State) Bounds() (min, max int) {
	return s.min, s.max
}
