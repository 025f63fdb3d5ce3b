package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/boxscore"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/rawdata"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/roster"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/cache"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/id"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

const rosterCacheKey = "rosters"

type RefineDeps struct {
	Sources     rawdata.Repository
	Outputs     game.Repository
	Rosters     roster.Repository
	RosterCache *cache.Store[*roster.Corpus]
	IDs         id.Generator
	Logger      *logging.Logger
	Now         func() time.Time
}

// RefineService runs refinement cycles: reconcile orphans, then extract,
// merge, validate and write every source game in turn.
type RefineService struct {
	sources     rawdata.Repository
	outputs     game.Repository
	rosters     roster.Repository
	rosterCache *cache.Store[*roster.Corpus]
	ids         id.Generator
	logger      *logging.Logger
	now         func() time.Time
	extractor   *boxscore.Extractor
}

func NewRefineService(deps RefineDeps) (*RefineService, error) {
	if deps.Sources == nil || deps.Outputs == nil || deps.Rosters == nil {
		return nil, fmt.Errorf("%w: sources, outputs and rosters are required", ErrInvalidInput)
	}
	if deps.RosterCache == nil {
		deps.RosterCache = cache.NewStore[*roster.Corpus](0)
	}
	if deps.IDs == nil {
		deps.IDs = id.NewUUIDGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &RefineService{
		sources:     deps.Sources,
		outputs:     deps.Outputs,
		rosters:     deps.Rosters,
		rosterCache: deps.RosterCache,
		ids:         deps.IDs,
		logger:      deps.Logger,
		now:         deps.Now,
		extractor:   boxscore.NewExtractor(category.Default(), deps.Now),
	}, nil
}

type CycleReport struct {
	CycleID         string
	Sources         int
	Refined         int
	NoBoxscore      int
	Skipped         int
	Failed          int
	ExtractionSkips int
	Orphans         OrphanReport
	RosterTeams     int
	Duration        time.Duration
}

type gameOutcome int

const (
	outcomeRefined gameOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// RunCycle performs one pass over the source store. Per-game problems are
// counted in the report; only a failure to list sources ends the cycle with
// an error.
func (s *RefineService) RunCycle(ctx context.Context) (CycleReport, error) {
	started := s.now()
	cycleID, err := s.ids.NewID()
	if err != nil {
		return CycleReport{}, fmt.Errorf("new cycle id: %w", err)
	}
	ctx, span := startCycleSpan(ctx, cycleID)
	defer span.End()

	logger := s.logger.With("cycle_id", cycleID)
	report := CycleReport{CycleID: cycleID}

	sourceIDs, err := s.sources.ListIDs(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list sources")
		return report, fmt.Errorf("list source games: %w", err)
	}
	report.Sources = len(sourceIDs)

	if outputIDs, err := s.outputs.ListIDs(ctx); err != nil {
		logger.WarnContext(ctx, "list refined games failed, skipping orphan cleanup", "error", err)
	} else {
		report.Orphans = ReconcileOrphans(ctx, sourceIDs, outputIDs, s.outputs, logger)
	}

	corpus := s.loadCorpus(ctx, logger)
	report.RosterTeams = corpus.Teams()

	for _, eventID := range sourceIDs {
		if ctx.Err() != nil {
			break
		}
		var outcome gameOutcome
		var pc panics.Catcher
		pc.Try(func() {
			outcome = s.refineGame(ctx, logger.With("event_id", eventID), eventID, corpus, &report)
		})
		if r := pc.Recovered(); r != nil {
			logger.ErrorContext(ctx, "refine game panicked", "event_id", eventID, "panic", r.String())
			outcome = outcomeFailed
		}
		switch outcome {
		case outcomeRefined:
			report.Refined++
		case outcomeSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	report.Duration = s.now().Sub(started)
	span.SetAttributes(
		attribute.Int("refine.sources", report.Sources),
		attribute.Int("refine.refined", report.Refined),
		attribute.Int("refine.failed", report.Failed),
	)
	logger.InfoContext(ctx, "refine cycle finished",
		"sources", report.Sources,
		"refined", report.Refined,
		"no_boxscore", report.NoBoxscore,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"extraction_skips", report.ExtractionSkips,
		"orphans_deleted", len(report.Orphans.Deleted),
		"roster_teams", report.RosterTeams,
		"duration", report.Duration,
	)
	return report, ctx.Err()
}

// loadCorpus falls back to an empty corpus when rosters cannot be loaded;
// documents are still zero-filled, just without unplayed roster players.
func (s *RefineService) loadCorpus(ctx context.Context, logger *logging.Logger) *roster.Corpus {
	corpus, err := s.rosterCache.GetOrLoad(ctx, rosterCacheKey, func(ctx context.Context) (*roster.Corpus, error) {
		teams, err := s.rosters.Load(ctx)
		if err != nil {
			return nil, err
		}
		return roster.NewCorpus(teams), nil
	})
	if err != nil {
		logger.WarnContext(ctx, "load rosters failed", "error", err)
		return roster.NewCorpus(nil)
	}
	return corpus
}

func (s *RefineService) refineGame(ctx context.Context, logger *logging.Logger, eventID string, corpus *roster.Corpus, report *CycleReport) gameOutcome {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefineService.refineGame")
	defer span.End()

	payload, found, err := s.sources.Read(ctx, eventID)
	if err != nil {
		logger.WarnContext(ctx, "skip unreadable source", "error", err)
		return outcomeSkipped
	}
	if !found {
		logger.DebugContext(ctx, "source vanished before read", "error", ErrNotFound)
		return outcomeSkipped
	}

	extracted := s.extractor.Extract(payload.Body, eventID)
	report.ExtractionSkips += len(extracted.Skips)
	for _, skip := range extracted.Skips {
		logger.DebugContext(ctx, "skipped record", "scope", skip.Scope, "key", skip.Key, "reason", skip.Reason)
	}
	if extracted.Game.Note != "" {
		report.NoBoxscore++
	}

	merged, stats := roster.Merge(extracted.Game, corpus)
	if err := game.Validate(ctx, merged); err != nil {
		logger.ErrorContext(ctx, "refined game rejected", "error", fmt.Errorf("%w: %w", ErrInvalidDocument, err))
		return outcomeFailed
	}
	if err := s.outputs.Save(ctx, merged); err != nil {
		logger.ErrorContext(ctx, "write refined game failed", "error", err)
		return outcomeFailed
	}

	logger.DebugContext(ctx, "game refined",
		"status", string(merged.Status),
		"teams", len(merged.Teams),
		"roster_inserted", stats.Inserted,
		"roster_backfilled", stats.Backfilled,
	)
	return outcomeRefined
}

// Run executes a cycle immediately and then once per interval until ctx is
// cancelled or maxTicks cycles have run. maxTicks <= 0 means no limit. A
// failed or panicking cycle is logged and the loop continues.
func (s *RefineService) Run(ctx context.Context, interval time.Duration, maxTicks int) error {
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidInput)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ticks := 1; ; ticks++ {
		s.runCycleSafely(ctx)
		if maxTicks > 0 && ticks >= maxTicks {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *RefineService) runCycleSafely(ctx context.Context) {
	var pc panics.Catcher
	pc.Try(func() {
		if _, err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "refine cycle failed", "error", err)
		}
	})
	if r := pc.Recovered(); r != nil {
		s.logger.ErrorContext(ctx, "refine cycle panicked", "panic", r.String())
	}
}
