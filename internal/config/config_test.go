package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/billie-coop/stepper/internal/quantity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stepper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, quantity.DefaultSettings(), cfg.Settings())
	assert.Equal(t, quantity.DefaultQuietPeriod, cfg.Stepper.QuietPeriod.Duration())
	assert.Equal(t, quantity.DefaultRepeatInterval, cfg.Stepper.RepeatInterval.Duration())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []LineConfig{{Name: "quantity"}}, cfg.ResolvedLines())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, quantity.DefaultSettings(), cfg.Settings())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
stepper:
  quantity: 7
  min: 1
  max: 20
  quiet_period: 500ms
  repeat_interval: 100ms
log:
  level: debug
  format: console
lines:
  - name: espresso
    quantity: 2
  - name: croissant
    max: 12
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, quantity.Settings{Quantity: 7, Min: 1, Max: 20}, cfg.Settings())
	assert.Equal(t, 500*time.Millisecond, cfg.Stepper.QuietPeriod.Duration())
	assert.Equal(t, 100*time.Millisecond, cfg.Stepper.RepeatInterval.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	require.Len(t, cfg.Lines, 2)
	assert.Equal(t, quantity.Settings{Quantity: 2, Min: 1, Max: 20}, cfg.LineSettings(cfg.Lines[0]))
	assert.Equal(t, quantity.Settings{Quantity: 7, Min: 1, Max: 12}, cfg.LineSettings(cfg.Lines[1]))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
stepper:
  max: 20
  quiet_period: 2s
`)
	t.Setenv("STEPPER_MAX", "50")
	t.Setenv("STEPPER_QUIET_PERIOD", "250ms")
	t.Setenv("STEPPER_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Settings().Max)
	assert.Equal(t, 250*time.Millisecond, cfg.Stepper.QuietPeriod.Duration())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	path := writeConfig(t, `
stepper:
  quantity: lots
  min: ""
  max: 12.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, quantity.DefaultSettings(), cfg.Settings())
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "inverted bounds",
			content: "stepper:\n  min: 10\n  max: 2\n",
			wantErr: ErrInvertedBounds,
		},
		{
			name:    "inverted line bounds",
			content: "lines:\n  - name: a\n    min: 5\n    max: 4\n",
			wantErr: ErrInvertedBounds,
		},
		{
			name:    "zero quiet period",
			content: "stepper:\n  quiet_period: 0s\n",
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "duplicate lines",
			content: "lines:\n  - name: a\n  - name: a\n",
			wantErr: ErrDuplicateLine,
		},
		{
			name:    "unnamed line takes a used name",
			content: "lines:\n  - name: line-2\n  - quantity: 3\n",
			wantErr: ErrDuplicateLine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolvedLines_NamesUnnamedLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lines = []LineConfig{{Name: "espresso"}, {Quantity: "4"}, {Max: "5"}}

	lines := cfg.ResolvedLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "espresso", lines[0].Name)
	assert.Equal(t, "line-2", lines[1].Name)
	assert.Equal(t, "line-3", lines[2].Name)
	assert.Empty(t, cfg.Lines[1].Name, "the configured lines are not modified")
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeConfig(t, "stepper: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"STEPPER_MIN":             "stepper.min",
		"STEPPER_QUIET_PERIOD":    "stepper.quiet_period",
		"STEPPER_REPEAT_INTERVAL": "stepper.repeat_interval",
		"STEPPER_LOG_LEVEL":       "log.level",
		"STEPPER_LOG_FILE":        "log.file",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("-1s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestManager_ReloadKeepsPreviousOnError(t *testing.T) {
	path := writeConfig(t, "stepper:\n  max: 30\n")
	m := NewManager(path)
	require.NoError(t, m.Load())
	assert.Equal(t, 30, m.Get().Settings().Max)

	require.NoError(t, os.WriteFile(path, []byte("stepper:\n  min: 40\n  max: 30\n"), 0o600))
	assert.ErrorIs(t, m.Load(), ErrInvertedBounds)
	assert.Equal(t, 30, m.Get().Settings().Max)
	assert.Equal(t, path, m.Path())
}
