package quantity_test

import (
	"testing"

	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name                  string
		current, delta, lo, hi int
		want                  int
	}{
		{"in range", 7, 1, 1, 999, 8},
		{"at max", 999, 1, 1, 999, 999},
		{"at min", 1, -1, 1, 999, 1},
		{"large undershoot", 5, -100, 1, 999, 1},
		{"large overshoot", 5, 5000, 1, 999, 999},
		{"current above range", 50, 0, 1, 10, 10},
		{"current below range", -3, 1, 1, 10, 1},
		{"single point range", 4, 3, 5, 5, 5},
		{"negative bounds", -10, -1, -20, -5, -11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quantity.Clamp(tt.current, tt.delta, tt.lo, tt.hi))
		})
	}
}

func TestClamp_Properties(t *testing.T) {
	for lo := -3; lo <= 3; lo++ {
		for hi := lo; hi <= lo+4; hi++ {
			for current := -8; current <= 8; current++ {
				for delta := -6; delta <= 6; delta++ {
					got := quantity.Clamp(current, delta, lo, hi)
					if got < lo || got > hi {
						t.Fatalf("Clamp(%d, %d, %d, %d) = %d, out of range", current, delta, lo, hi, got)
					}
					if sum := current + delta; sum >= lo && sum <= hi && got != sum {
						t.Fatalf("Clamp(%d, %d, %d, %d) = %d, want %d", current, delta, lo, hi, got, sum)
					}
					if again := quantity.Clamp(got, 0, lo, hi); again != got {
						t.Fatalf("Clamp not idempotent: %d -> %d", got, again)
					}
				}
			}
		}
	}
}
