// Package script parses and replays intent sequences against a stepper.
//
// A script is a whitespace-separated list of steps:
//
//	+          increment
//	-          decrement
//	hold+      begin press-and-hold upwards
//	hold-      begin press-and-hold downwards
//	release    end press-and-hold
//	set=N      external write of quantity N
//	600ms      wait (any time.ParseDuration value)
//
// Lines starting with # are comments.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billie-coop/stepper/internal/quantity"
)

// ErrUnknownStep is returned for a token that is not a step.
var ErrUnknownStep = errors.New("unknown step")

// Op is a script operation.
type Op int

const (
	OpIncrement Op = iota
	OpDecrement
	OpHoldUp
	OpHoldDown
	OpRelease
	OpSet
	OpWait
)

// String returns the script token for op.
func (o Op) String() string {
	switch o {
	case OpIncrement:
		return "+"
	case OpDecrement:
		return "-"
	case OpHoldUp:
		return "hold+"
	case OpHoldDown:
		return "hold-"
	case OpRelease:
		return "release"
	case OpSet:
		return "set"
	case OpWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Step is one parsed script token.
type Step struct {
	Op    Op
	Value int           // OpSet
	Wait  time.Duration // OpWait
}

// Parse reads a script.
func Parse(src string) ([]Step, error) {
	var steps []Step
	for lineNo, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, tok := range strings.Fields(line) {
			step, err := parseToken(tok)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func parseToken(tok string) (Step, error) {
	switch tok {
	case "+":
		return Step{Op: OpIncrement}, nil
	case "-":
		return Step{Op: OpDecrement}, nil
	case "hold+":
		return Step{Op: OpHoldUp}, nil
	case "hold-":
		return Step{Op: OpHoldDown}, nil
	case "release":
		return Step{Op: OpRelease}, nil
	}

	if raw, ok := strings.CutPrefix(tok, "set="); ok {
		n, err := quantity.ParseInt(raw)
		if err != nil {
			return Step{}, fmt.Errorf("%s: %w", tok, err)
		}
		return Step{Op: OpSet, Value: n}, nil
	}

	if d, err := time.ParseDuration(tok); err == nil && d >= 0 {
		return Step{Op: OpWait, Wait: d}, nil
	}

	return Step{}, fmt.Errorf("%w: %q", ErrUnknownStep, tok)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep waits on the wall clock.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run replays steps against s. Waits go through wait so tests can
// advance a manual clock instead of sleeping.
func Run(ctx context.Context, s *quantity.Stepper, steps []Step, wait WaitFunc) error {
	if wait == nil {
		wait = Sleep
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch step.Op {
		case OpIncrement:
			s.Increment()
		case OpDecrement:
			s.Decrement()
		case OpHoldUp:
			s.BeginRepeat(quantity.Up)
		case OpHoldDown:
			s.BeginRepeat(quantity.Down)
		case OpRelease:
			s.EndRepeat()
		case OpSet:
			s.Set(step.Value)
		case OpWait:
			if err := wait(ctx, step.Wait); err != nil {
				return err
			}
		}
	}
	return nil
}
