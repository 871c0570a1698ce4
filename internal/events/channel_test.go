package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settled(v int) Settled {
	return Settled{Type: UpdateEvent, Source: "test", Value: v, Previous: v - 1, At: time.Now()}
}

func TestChannel_NotifyInOrder(t *testing.T) {
	c := NewChannel()
	var got []string

	c.Subscribe(func(ev Settled) error { got = append(got, "a"); return nil })
	c.Subscribe(func(ev Settled) error { got = append(got, "b"); return nil })

	require.NoError(t, c.Notify(settled(2)))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, c.Len())
}

func TestChannel_Unsubscribe(t *testing.T) {
	c := NewChannel()
	calls := 0
	unsubscribe := c.Subscribe(func(Settled) error { calls++; return nil })

	unsubscribe()
	unsubscribe()
	require.NoError(t, c.Notify(settled(2)))

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Len())
}

func TestChannel_NilHandler(t *testing.T) {
	c := NewChannel()
	c.Subscribe(nil)()
	assert.Equal(t, 0, c.Len())
}

func TestChannel_ErrorsAreJoined(t *testing.T) {
	c := NewChannel()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	reached := false

	c.Subscribe(func(Settled) error { return errA })
	c.Subscribe(func(Settled) error { reached = true; return nil })
	c.Subscribe(func(Settled) error { return errB })

	err := c.Notify(settled(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, reached, "a failing handler does not stop delivery")
}

func TestChannel_HandlerMaySubscribeDuringNotify(t *testing.T) {
	c := NewChannel()
	var late int
	c.Subscribe(func(Settled) error {
		c.Subscribe(func(Settled) error { late++; return nil })
		return nil
	})

	require.NoError(t, c.Notify(settled(2)))
	assert.Equal(t, 0, late, "subscribers added during delivery wait for the next event")

	require.NoError(t, c.Notify(settled(3)))
	assert.Equal(t, 1, late)
}

func TestChannel_Clear(t *testing.T) {
	c := NewChannel()
	c.Subscribe(func(Settled) error { return nil })
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestChannel_ClearDuringNotifySkipsRemaining(t *testing.T) {
	c := NewChannel()
	var calls []string

	c.Subscribe(func(Settled) error {
		calls = append(calls, "a")
		c.Clear()
		return nil
	})
	c.Subscribe(func(Settled) error {
		calls = append(calls, "b")
		return nil
	})

	require.NoError(t, c.Notify(settled(2)))
	assert.Equal(t, []string{"a"}, calls)
}

func TestChannel_UnsubscribeDuringNotify(t *testing.T) {
	c := NewChannel()
	var second int
	var unsubscribeSecond func()

	c.Subscribe(func(Settled) error {
		unsubscribeSecond()
		return nil
	})
	unsubscribeSecond = c.Subscribe(func(Settled) error {
		second++
		return nil
	})

	require.NoError(t, c.Notify(settled(2)))
	assert.Zero(t, second)
	assert.Equal(t, 1, c.Len())
}
