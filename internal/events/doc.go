// Package events provides the notification surface of a stepper.
//
// A Channel holds handlers registered with Subscribe. When a stepper's
// quantity settles on a new value it calls Notify, which runs every
// handler synchronously with a Settled payload:
//
//	ch := events.NewChannel()
//	stop := ch.Subscribe(func(ev events.Settled) error {
//		return api.UpdateLine(ev.Source, ev.Value)
//	})
//	defer stop()
//
// Handler failures are returned from Notify joined together; the
// channel does not retry or queue.
package events
