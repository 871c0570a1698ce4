package events

import (
	"errors"
	"fmt"
	"sync"
)

// Channel is a synchronous observer list.
//
// Notify calls every current subscriber in subscription order on the
// caller's goroutine. There is no queue and no retry.
type Channel struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id      uint64
	handler Handler
}

// NewChannel creates an empty channel
func NewChannel() *Channel {
	return &Channel{}
}

// Subscribe registers handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (c *Channel) Subscribe(handler Handler) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { c.remove(id) })
	}
}

// Notify delivers event to all subscribers. Handler errors are joined
// and returned; every subscriber is called even if an earlier one fails.
//
// A subscriber removed while delivery is in progress, by its unsubscribe
// function or by Clear, is skipped if it has not been called yet. A
// handler already running is not interrupted.
func (c *Channel) Notify(event Settled) error {
	// Snapshot so handlers may subscribe or unsubscribe while running
	c.mu.RLock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if !c.subscribed(sub.id) {
			continue
		}
		if err := sub.handler(event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.Type, sub.id, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of subscribers
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// Clear removes all subscribers
func (c *Channel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = nil
}

func (c *Channel) subscribed(id uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sub := range c.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

// remove drops the subscription with the given id
func (c *Channel) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.subs {
		if sub.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}
