package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/boxscore-refiner/internal/app"
	"github.com/riskibarqy/boxscore-refiner/internal/config"
	"github.com/riskibarqy/boxscore-refiner/internal/observability"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Once       bool
	Ticks      int
	Interval   time.Duration
	SourceDir  string
	RostersDir string
	OutputDir  string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Refine every source file on a fixed interval",
		Long: `Run refine cycles until interrupted. Each cycle deletes outputs whose source is
gone, then refines every source file and merges it with the roster corpus.

Settings come from the environment (REFINER_*, APP_LOG_*, UPTRACE_*, PYROSCOPE_*);
flags override them.

Example:
  refiner run --once
  refiner run --interval 30s --out ./refined -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefiner(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Once, "once", false, "run a single cycle and exit")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "stop after N cycles (0 runs until interrupted)")
	cmd.Flags().DurationVar(&opts.Interval, "interval", config.DefaultInterval, "time between cycles, clamped to 10s..300s")
	cmd.Flags().StringVar(&opts.SourceDir, "source", "", "raw boxscore directory")
	cmd.Flags().StringVar(&opts.RostersDir, "rosters", "", "roster directory")
	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "refined output directory")

	return cmd
}

func runRefiner(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	requested, err := applyFlags(cmd, opts, &cfg)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:  logLevel(cfg.LogLevel, opts.RootOptions),
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if requested != cfg.Interval {
		logger.Warn("interval clamped", "requested", requested, "interval", cfg.Interval)
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	svc, err := app.NewRefiner(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("refiner starting",
		"source_dir", cfg.SourceDir,
		"rosters_dir", cfg.RostersDir,
		"output_dir", cfg.OutputDir,
		"interval", cfg.Interval,
		"max_ticks", cfg.MaxTicks,
	)
	if err := svc.Run(ctx, cfg.Interval, cfg.MaxTicks); err != nil {
		return fmt.Errorf("run refiner: %w", err)
	}
	logger.Info("refiner stopped")
	return nil
}

// applyFlags overlays explicitly set flags on cfg and returns the interval
// that was asked for before clamping.
func applyFlags(cmd *cobra.Command, opts *RunOptions, cfg *config.Config) (time.Duration, error) {
	flags := cmd.Flags()

	if flags.Changed("source") {
		cfg.SourceDir = opts.SourceDir
	}
	if flags.Changed("rosters") {
		cfg.RostersDir = opts.RostersDir
	}
	if flags.Changed("out") {
		cfg.OutputDir = opts.OutputDir
	}

	requested := cfg.Interval
	if flags.Changed("interval") {
		requested = opts.Interval
		cfg.Interval = config.ClampInterval(opts.Interval)
	}

	if flags.Changed("ticks") {
		if opts.Ticks < 0 {
			return 0, fmt.Errorf("--ticks must be >= 0")
		}
		cfg.MaxTicks = opts.Ticks
	} else if opts.Once {
		cfg.MaxTicks = 1
	}

	return requested, cfg.Validate()
}

// logLevel maps -v to info, -vv to debug and --quiet to error; without flags
// APP_LOG_LEVEL decides.
func logLevel(base logging.Level, opts *RootOptions) logging.Level {
	switch {
	case opts == nil:
		return base
	case opts.Quiet:
		return logging.LevelError
	case opts.Verbose >= 2:
		return logging.LevelDebug
	case opts.Verbose == 1:
		return logging.LevelInfo
	default:
		return base
	}
}
