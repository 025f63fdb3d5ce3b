package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/boxscore-refiner/internal/config"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "REFINER_INTERVAL", "REFINER_MAX_TICKS", "REFINER_SOURCE_DIR",
		"REFINER_ROSTERS_DIR", "REFINER_OUTPUT_DIR", "UPTRACE_DSN", "OTEL_EXPORTER_OTLP_HEADERS",
		"APP_LOG_LEVEL", "ROSTER_LOAD_WORKERS", "ROSTER_CACHE_TTL", "PYROSCOPE_UPLOAD_RATE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
	t.Setenv("APP_LOG_FORMAT", "json")
}

func parseRunFlags(t *testing.T, args ...string) (*config.Config, time.Duration, error) {
	t.Helper()

	opts := &RunOptions{RootOptions: &RootOptions{}}
	cmd := newRunCommand(opts)
	require.NoError(t, cmd.ParseFlags(args))

	cfg := config.Config{
		SourceDir:  "nfl_live_stats",
		RostersDir: "nfl_rosters",
		OutputDir:  "nfl_refined_live_stats",
		Interval:   config.DefaultInterval,
	}
	requested, err := applyFlags(cmd, opts, &cfg)
	return &cfg, requested, err
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	t.Run("once means a single tick", func(t *testing.T) {
		cfg, _, err := parseRunFlags(t, "--once")
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.MaxTicks)
	})

	t.Run("explicit ticks win over once", func(t *testing.T) {
		cfg, _, err := parseRunFlags(t, "--once", "--ticks", "3")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.MaxTicks)
	})

	t.Run("interval is clamped", func(t *testing.T) {
		cfg, requested, err := parseRunFlags(t, "--interval", "2s")
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, requested)
		assert.Equal(t, config.MinInterval, cfg.Interval)
	})

	t.Run("output dir override", func(t *testing.T) {
		cfg, _, err := parseRunFlags(t, "--out", "refined")
		require.NoError(t, err)
		assert.Equal(t, "refined", cfg.OutputDir)
	})

	t.Run("output must differ from source", func(t *testing.T) {
		_, _, err := parseRunFlags(t, "--out", "nfl_live_stats")
		require.Error(t, err)
	})

	t.Run("negative ticks rejected", func(t *testing.T) {
		_, _, err := parseRunFlags(t, "--ticks=-1")
		require.Error(t, err)
	})
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, logging.LevelWarn, logLevel(logging.LevelWarn, &RootOptions{}))
	assert.Equal(t, logging.LevelInfo, logLevel(logging.LevelWarn, &RootOptions{Verbose: 1}))
	assert.Equal(t, logging.LevelDebug, logLevel(logging.LevelWarn, &RootOptions{Verbose: 2}))
	assert.Equal(t, logging.LevelDebug, logLevel(logging.LevelWarn, &RootOptions{Verbose: 3}))
	assert.Equal(t, logging.LevelError, logLevel(logging.LevelDebug, &RootOptions{Quiet: true}))
	assert.Equal(t, logging.LevelError, logLevel(logging.LevelError, nil))
}

func TestRunCommand_OnceRefinesAndExits(t *testing.T) {
	isolateEnv(t)
	defer logging.SetDefault(logging.Default())

	root := t.TempDir()
	source := filepath.Join(root, "raw")
	rosters := filepath.Join(root, "rosters")
	out := filepath.Join(root, "refined")
	require.NoError(t, os.MkdirAll(source, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "401772.json"), []byte(`{"header": {}}`), 0o644))

	var stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetErr(&stderr)
	cmd.SetOut(&stderr)
	cmd.SetArgs([]string{"run", "--once", "--source", source, "--rosters", rosters, "--out", out})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(out, "401772.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"eventId": "401772"`)
	assert.True(t, strings.Contains(stderr.String(), "refiner stopped"), stderr.String())
}

func TestRootCommand_RejectsVerboseWithQuiet(t *testing.T) {
	isolateEnv(t)

	cmd := NewRootCommand()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "-v", "--quiet", "--once"})

	require.Error(t, cmd.Execute())
}
