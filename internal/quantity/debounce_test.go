package quantity_test

import (
	"testing"
	"time"

	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/billie-coop/stepper/internal/quantity/quantitytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// debounceHarness records the generations the debouncer triggers.
type debounceHarness struct {
	clock *quantitytest.Clock
	d     *quantity.Debouncer
	fired []uint64
}

func newDebounceHarness() *debounceHarness {
	h := &debounceHarness{clock: quantitytest.NewClock()}
	h.d = quantity.NewDebouncer(h.clock, time.Second, func(gen uint64) {
		h.fired = append(h.fired, gen)
	})
	return h
}

func TestDebouncer_FirstObservationIsBaseline(t *testing.T) {
	h := newDebounceHarness()

	assert.Equal(t, quantity.Idle, h.d.State())
	_, ok := h.d.Committed()
	assert.False(t, ok)

	started := h.d.Schedule(7)

	assert.False(t, started)
	assert.Equal(t, quantity.Idle, h.d.State())
	committed, ok := h.d.Committed()
	assert.True(t, ok)
	assert.Equal(t, 7, committed)
	assert.Equal(t, 0, h.clock.Pending())
}

func TestDebouncer_ChangedValueSettles(t *testing.T) {
	h := newDebounceHarness()
	h.d.Schedule(7)

	require.True(t, h.d.Schedule(8))
	assert.Equal(t, quantity.Pending, h.d.State())

	h.clock.Advance(999 * time.Millisecond)
	assert.Empty(t, h.fired)

	h.clock.Advance(time.Millisecond)
	require.Len(t, h.fired, 1)

	settle, ok := h.d.Elapse(h.fired[0], 8)
	require.True(t, ok)
	assert.Equal(t, quantity.Settle{Outcome: quantity.OutcomeChanged, Value: 8, Previous: 7}, settle)
	assert.Equal(t, quantity.Idle, h.d.State())

	committed, _ := h.d.Committed()
	assert.Equal(t, 8, committed)
}

func TestDebouncer_UnchangedValue(t *testing.T) {
	h := newDebounceHarness()
	h.d.Schedule(999)
	h.d.Schedule(999)

	h.clock.Advance(time.Second)
	require.Len(t, h.fired, 1)

	settle, ok := h.d.Elapse(h.fired[0], 999)
	require.True(t, ok)
	assert.Equal(t, quantity.OutcomeUnchanged, settle.Outcome)
}

func TestDebouncer_RestartDiscardsStaleGeneration(t *testing.T) {
	h := newDebounceHarness()
	h.d.Schedule(5)

	h.d.Schedule(6)
	h.clock.Advance(500 * time.Millisecond)
	h.d.Schedule(7)
	h.clock.Advance(500 * time.Millisecond)

	assert.Empty(t, h.fired, "first timer was stopped")
	assert.Equal(t, 1, h.clock.Pending())

	h.clock.Advance(500 * time.Millisecond)
	require.Len(t, h.fired, 1)

	// A generation from before the restart is rejected
	_, ok := h.d.Elapse(h.fired[0]-1, 7)
	assert.False(t, ok)

	settle, ok := h.d.Elapse(h.fired[0], 7)
	require.True(t, ok)
	assert.Equal(t, 7, settle.Value)

	// Elapsing twice is rejected too
	_, ok = h.d.Elapse(h.fired[0], 7)
	assert.False(t, ok)
}

func TestDebouncer_ElapseWithoutCommitBecomesBaseline(t *testing.T) {
	h := newDebounceHarness()
	h.d.Schedule(3)
	h.d.Schedule(4)
	h.d.ClearCommitted()

	h.clock.Advance(time.Second)
	require.Len(t, h.fired, 1)

	settle, ok := h.d.Elapse(h.fired[0], 4)
	require.True(t, ok)
	assert.Equal(t, quantity.OutcomeBaseline, settle.Outcome)

	committed, has := h.d.Committed()
	assert.True(t, has)
	assert.Equal(t, 4, committed)
}

func TestDebouncer_UnknownCommitAlwaysChanges(t *testing.T) {
	h := newDebounceHarness()
	h.d.SetCommittedUnknown()
	assert.True(t, h.d.CommittedUnknown())

	require.True(t, h.d.Schedule(0), "an unknown commit is still a commit")
	h.clock.Advance(time.Second)
	require.Len(t, h.fired, 1)

	settle, ok := h.d.Elapse(h.fired[0], 0)
	require.True(t, ok)
	assert.Equal(t, quantity.OutcomeChanged, settle.Outcome)
	assert.False(t, h.d.CommittedUnknown())

	h.d.Schedule(0)
	h.clock.Advance(time.Second)
	require.Len(t, h.fired, 2)
	settle, _ = h.d.Elapse(h.fired[1], 0)
	assert.Equal(t, quantity.OutcomeUnchanged, settle.Outcome)
}

func TestDebouncer_SetCommittedClearsUnknown(t *testing.T) {
	h := newDebounceHarness()
	h.d.SetCommittedUnknown()
	h.d.SetCommitted(4)
	assert.False(t, h.d.CommittedUnknown())

	h.d.SetCommittedUnknown()
	h.d.ClearCommitted()
	assert.False(t, h.d.CommittedUnknown())
	_, has := h.d.Committed()
	assert.False(t, has)
}

func TestDebouncer_Cancel(t *testing.T) {
	h := newDebounceHarness()
	h.d.Schedule(1)
	h.d.Schedule(2)

	h.d.Cancel()

	assert.Equal(t, quantity.Idle, h.d.State())
	assert.Equal(t, 0, h.clock.Pending())
	h.clock.Advance(5 * time.Second)
	assert.Empty(t, h.fired)
}

func TestDebouncer_Defaults(t *testing.T) {
	d := quantity.NewDebouncer(nil, 0, nil)
	assert.Equal(t, quantity.DefaultQuietPeriod, d.QuietPeriod())
}

func TestDebounceState_String(t *testing.T) {
	assert.Equal(t, "IDLE", quantity.Idle.String())
	assert.Equal(t, "PENDING", quantity.Pending.String())
	assert.Equal(t, "UNKNOWN", quantity.DebounceState(9).String())
	assert.Equal(t, "changed", quantity.OutcomeChanged.String())
}
