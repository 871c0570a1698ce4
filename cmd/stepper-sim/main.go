// Command stepper-sim replays a script of button presses against a
// stepper on the wall clock and prints every settled update.
//
//	stepper-sim "+ + + 500ms + 1.2s"
//	stepper-sim --max 10 "hold+ 1s release"
//	stepper-sim            # runs the built-in examples
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/billie-coop/stepper/internal/events"
	"github.com/billie-coop/stepper/internal/logging"
	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/billie-coop/stepper/internal/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type simFlags struct {
	quantity string
	min      string
	max      string
	quiet    time.Duration
	repeat   time.Duration
	file     string
	logLevel string
}

var examples = []struct {
	name string
	src  string
}{
	{"three quick clicks", "+ + + 1.2s"},
	{"click then wait", "+ 1.2s"},
	{"back to where it started", "+ - 1.2s"},
	{"press and hold", "hold+ 650ms release 1.2s"},
	{"clicks keep resetting the quiet period", "+ 800ms + 800ms + 1.2s"},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &simFlags{}
	cmd := &cobra.Command{
		Use:          "stepper-sim [script]",
		Short:        "Replay button presses against a quantity stepper",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd, f, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.quantity, "quantity", "", "initial quantity")
	fs.StringVar(&f.min, "min", "", "minimum")
	fs.StringVar(&f.max, "max", "", "maximum")
	fs.DurationVar(&f.quiet, "quiet", quantity.DefaultQuietPeriod, "quiet period before a change settles")
	fs.DurationVar(&f.repeat, "repeat", quantity.DefaultRepeatInterval, "repeat interval while held")
	fs.StringVarP(&f.file, "file", "f", "", "read the script from a file")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level")
	return cmd
}

func runSim(cmd *cobra.Command, f *simFlags, args []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = f.logLevel
	logCfg.Format = "console"
	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	var src string
	switch {
	case f.file != "":
		b, err := os.ReadFile(f.file)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		src = string(b)
	case len(args) == 1:
		src = args[0]
	}

	out := cmd.OutOrStdout()
	if src != "" {
		return simulate(cmd.Context(), f, src, logger, func(line string) { fmt.Fprintln(out, line) })
	}

	fmt.Fprintln(out, "Stepper Simulator")
	fmt.Fprintln(out, "=================")
	for i, ex := range examples {
		fmt.Fprintf(out, "\nExample %d: %s\n", i+1, ex.name)
		fmt.Fprintf(out, "  script: %s\n", ex.src)
		if err := simulate(cmd.Context(), f, ex.src, logger, func(line string) { fmt.Fprintln(out, "  "+line) }); err != nil {
			return err
		}
	}
	return nil
}

// simulate runs one script on a fresh stepper and waits out a final
// quiet period so the last change is reported.
func simulate(ctx context.Context, f *simFlags, src string, logger *zap.Logger, emit func(string)) error {
	// Settled handlers run on timer goroutines.
	var mu sync.Mutex
	print := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		emit(line)
	}

	steps, err := script.Parse(src)
	if err != nil {
		return err
	}

	s := quantity.New(quantity.ParseSettings(f.quantity, f.min, f.max),
		quantity.WithName("sim"),
		quantity.WithQuietPeriod(f.quiet),
		quantity.WithRepeatInterval(f.repeat),
		quantity.WithLogger(logger),
	)
	defer s.Close()

	start := time.Now()
	s.OnSettled(func(ev events.Settled) error {
		print(fmt.Sprintf("+%-6s %s %d -> %d", ev.At.Sub(start).Round(10*time.Millisecond), ev.Type, ev.Previous, ev.Value))
		return nil
	})

	lo, hi := s.Bounds()
	print(fmt.Sprintf("start %d in [%d..%d]", s.Value(), lo, hi))

	if err := script.Run(ctx, s, steps, script.Sleep); err != nil {
		return err
	}
	if s.Snapshot().Debounce == quantity.Pending {
		if err := script.Sleep(ctx, f.quiet+50*time.Millisecond); err != nil {
			return err
		}
	}

	snap := s.Snapshot()
	print(strings.TrimSpace(fmt.Sprintf("end %d (committed %d)", snap.Quantity, snap.Committed)))
	return nil
}
