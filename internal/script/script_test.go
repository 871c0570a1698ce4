package script

import (
	"context"
	"testing"
	"time"

	"github.com/billie-coop/stepper/internal/events"
	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/billie-coop/stepper/internal/quantity/quantitytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	steps, err := Parse(`
# click three times quickly
+ 100ms + 100ms +
hold- 600ms release
set=42 1s
`)
	require.NoError(t, err)

	want := []Step{
		{Op: OpIncrement},
		{Op: OpWait, Wait: 100 * time.Millisecond},
		{Op: OpIncrement},
		{Op: OpWait, Wait: 100 * time.Millisecond},
		{Op: OpIncrement},
		{Op: OpHoldDown},
		{Op: OpWait, Wait: 600 * time.Millisecond},
		{Op: OpRelease},
		{Op: OpSet, Value: 42},
		{Op: OpWait, Wait: time.Second},
	}
	assert.Equal(t, want, steps)
}

func TestParse_Errors(t *testing.T) {
	tests := []string{"jump", "set=many", "+ -5s", "hold"}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			assert.Error(t, err)
		})
	}

	_, err := Parse("+\n  bogus")
	assert.ErrorIs(t, err, ErrUnknownStep)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRun_ManualClock(t *testing.T) {
	clock := quantitytest.NewClock()
	s := quantity.New(quantity.Settings{Quantity: 5, Min: 1, Max: 999}, quantity.WithClock(clock))
	defer s.Close()

	var settled []int
	s.OnSettled(func(ev events.Settled) error {
		settled = append(settled, ev.Value)
		return nil
	})

	steps, err := Parse("+ 100ms + 100ms + 1s hold+ 400ms release 1s")
	require.NoError(t, err)

	wait := func(_ context.Context, d time.Duration) error {
		clock.Advance(d)
		return nil
	}
	require.NoError(t, Run(context.Background(), s, steps, wait))

	assert.Equal(t, []int{8, 10}, settled)
}

func TestRun_Cancelled(t *testing.T) {
	s := quantity.New(quantity.DefaultSettings(), quantity.WithClock(quantitytest.NewClock()))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, s, []Step{{Op: OpIncrement}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.Value())
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "hold+", OpHoldUp.String())
	assert.Equal(t, "unknown", Op(99).String())
}
