package events

import "time"

// EventType identifies the type of event
type EventType string

const (
	// UpdateEvent is emitted when a stepper's quantity has settled on a
	// value different from the last one reported.
	UpdateEvent EventType = "update"
)

// Settled is the payload of an UpdateEvent.
type Settled struct {
	Type     EventType
	Source   string // name of the emitting stepper
	Value    int
	Previous int
	At       time.Time
}

// Handler receives settled events. A returned error propagates back to
// the notifying stepper.
type Handler func(Settled) error
