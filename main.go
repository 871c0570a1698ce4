// Package main is the entry point for the stepper terminal app.
//
// Usage:
//
//	# One line with the default bounds
//	stepper
//
//	# Lines and timing from a file, reloading bounds on save
//	stepper --config stepper.yaml --watch
//
//	# Override the defaults every line inherits
//	stepper --min 0 --max 12 --quantity 2
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/billie-coop/stepper/internal/cart"
	"github.com/billie-coop/stepper/internal/config"
	"github.com/billie-coop/stepper/internal/logging"
	"github.com/billie-coop/stepper/internal/metrics"
	"github.com/billie-coop/stepper/internal/tui"
	"github.com/billie-coop/stepper/internal/watcher"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Version information (set via ldflags during build)
var version = "dev"

const defaultLogFile = "stepper.log"

// flags holds the command line overrides.
type flags struct {
	configPath  string
	quantity    string
	min         string
	max         string
	watch       bool
	logFile     string
	metricsAddr string
}

var opts flags

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = newRootCmd(&opts)

func newRootCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stepper",
		Short: "Quantity steppers in the terminal",
		Long: `stepper shows one quantity stepper per configured line. Changes are
committed after a quiet period and only values that differ from the last
commit are reported.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, cmd.Flags())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fs.StringVar(&f.quantity, "quantity", "", "initial quantity for lines without one")
	fs.StringVar(&f.min, "min", "", "minimum for lines without one")
	fs.StringVar(&f.max, "max", "", "maximum for lines without one")
	fs.BoolVarP(&f.watch, "watch", "w", false, "reload bounds when the config file changes")
	fs.StringVar(&f.logFile, "log-file", "", "log file (default "+defaultLogFile+")")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, f *flags, fs *pflag.FlagSet) {
	if fs.Changed("quantity") {
		cfg.Stepper.Quantity = f.quantity
	}
	if fs.Changed("min") {
		cfg.Stepper.Min = f.min
	}
	if fs.Changed("max") {
		cfg.Stepper.Max = f.max
	}
	if fs.Changed("log-file") {
		cfg.Log.File = f.logFile
	}
	// The terminal belongs to the UI.
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
}

// loadConfig loads through manager and applies the flag overrides.
func loadConfig(manager *config.Manager, f *flags, fs *pflag.FlagSet) (*config.Config, error) {
	if err := manager.Load(); err != nil {
		return nil, err
	}
	cfg := *manager.Get()
	cfg.Lines = append([]config.LineConfig(nil), cfg.Lines...)
	applyFlags(&cfg, f, fs)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return &cfg, nil
}

func run(ctx context.Context, f *flags, fs *pflag.FlagSet) error {
	if ctx == nil {
		ctx = context.Background()
	}

	manager := config.NewManager(f.configPath)
	cfg, err := loadConfig(manager, f, fs)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	stats := metrics.New(prometheus.DefaultRegisterer)

	c, err := cart.FromConfig(cfg, cart.WithLogger(logger), cart.WithMetrics(stats))
	if err != nil {
		return err
	}
	defer c.Close()

	logger.Info("stepper starting",
		zap.String("version", version),
		zap.String("config", f.configPath),
		zap.Int("lines", c.Len()),
	)

	if f.metricsAddr != "" {
		srv := &http.Server{
			Addr:              f.metricsAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if f.watch && f.configPath != "" {
		w := watcher.NewWatcher(watcher.DefaultDebounceDelay, func([]string) {
			reloaded, err := loadConfig(manager, f, fs)
			if err != nil {
				logger.Warn("config reload failed", zap.Error(err))
				return
			}
			c.ApplyConfig(reloaded)
		})
		w.SetLogger(logger)
		if err := w.Watch(f.configPath); err != nil {
			return err
		}
		defer w.Stop()
	}

	p := tea.NewProgram(tui.New(c, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	c.OnUpdate(func(u cart.Update) error {
		p.Send(tui.UpdateMsg(u))
		return nil
	})

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui: %w", err)
	}
	c.OnUpdate(nil)
	return nil
}
