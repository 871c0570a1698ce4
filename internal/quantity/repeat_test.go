package quantity_test

import (
	"testing"
	"time"

	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/billie-coop/stepper/internal/quantity/quantitytest"
	"github.com/stretchr/testify/assert"
)

func TestRepeater_TicksEveryInterval(t *testing.T) {
	clock := quantitytest.NewClock()
	var steps []quantity.Direction
	var r *quantity.Repeater
	r = quantity.NewRepeater(clock, 200*time.Millisecond, func(gen uint64) {
		if dir, ok := r.Tick(gen); ok {
			steps = append(steps, dir)
		}
	})

	assert.True(t, r.Begin(quantity.Up))
	assert.True(t, r.Active())

	clock.Advance(199 * time.Millisecond)
	assert.Empty(t, steps)

	clock.Advance(201 * time.Millisecond)
	assert.Equal(t, []quantity.Direction{quantity.Up, quantity.Up}, steps)
	assert.Equal(t, 1, clock.Pending(), "only one timer per session")

	assert.True(t, r.End())
	clock.Advance(time.Second)
	assert.Len(t, steps, 2)
	assert.Equal(t, 0, clock.Pending())
}

func TestRepeater_BeginWhileActiveIsNoop(t *testing.T) {
	r := quantity.NewRepeater(quantitytest.NewClock(), 0, nil)

	assert.True(t, r.Begin(quantity.Up))
	assert.False(t, r.Begin(quantity.Down))
	assert.Equal(t, quantity.Up, r.Direction())
	assert.Equal(t, quantity.DefaultRepeatInterval, r.Interval())
}

func TestRepeater_EndIsIdempotent(t *testing.T) {
	r := quantity.NewRepeater(quantitytest.NewClock(), 0, nil)

	assert.False(t, r.End())
	r.Begin(quantity.Down)
	assert.True(t, r.End())
	assert.False(t, r.End())
	assert.Equal(t, quantity.Direction(0), r.Direction())
}

func TestRepeater_NormalizesDirection(t *testing.T) {
	r := quantity.NewRepeater(quantitytest.NewClock(), 0, nil)

	assert.False(t, r.Begin(0))
	assert.True(t, r.Begin(quantity.Direction(-5)))
	assert.Equal(t, quantity.Down, r.Direction())
}

func TestRepeater_StaleTickRejected(t *testing.T) {
	clock := quantitytest.NewClock()
	var gens []uint64
	r := quantity.NewRepeater(clock, 100*time.Millisecond, func(gen uint64) {
		gens = append(gens, gen)
	})

	r.Begin(quantity.Up)
	clock.Advance(100 * time.Millisecond)
	r.End()
	r.Begin(quantity.Up)

	_, ok := r.Tick(gens[0])
	assert.False(t, ok)
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "up", quantity.Up.String())
	assert.Equal(t, "down", quantity.Down.String())
	assert.Equal(t, "none", quantity.Direction(0).String())
}
