package app

import (
	"fmt"

	"github.com/riskibarqy/boxscore-refiner/internal/config"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/roster"
	"github.com/riskibarqy/boxscore-refiner/internal/infrastructure/repository/file"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/cache"
	idgen "github.com/riskibarqy/boxscore-refiner/internal/platform/id"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
	"github.com/riskibarqy/boxscore-refiner/internal/usecase"
)

// NewRefiner wires the file stores, roster cache and cycle id generator into a
// RefineService.
func NewRefiner(cfg config.Config, logger *logging.Logger) (*usecase.RefineService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	sourceRepo := file.NewSourceRepository(cfg.SourceDir)
	outputRepo := file.NewOutputRepository(cfg.OutputDir)
	rosterRepo := file.NewRosterRepository(cfg.RostersDir, cfg.RosterLoadWorkers, logger.Named("rosters"))

	svc, err := usecase.NewRefineService(usecase.RefineDeps{
		Sources:     sourceRepo,
		Outputs:     outputRepo,
		Rosters:     rosterRepo,
		RosterCache: cache.NewStore[*roster.Corpus](cfg.RosterCacheTTL),
		IDs:         idgen.NewUUIDGenerator(),
		Logger:      logger.Named("refine"),
	})
	if err != nil {
		return nil, fmt.Errorf("build refine service: %w", err)
	}

	return svc, nil
}
