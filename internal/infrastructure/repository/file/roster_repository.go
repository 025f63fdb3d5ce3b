package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/roster"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

const defaultRosterWorkers = 4

// RosterRepository parses every roster file in a directory on a bounded
// worker pool. One bad file is logged and left out; it never fails the load.
type RosterRepository struct {
	dir     string
	workers int
	logger  *logging.Logger
}

func NewRosterRepository(dir string, workers int, logger *logging.Logger) *RosterRepository {
	if workers < 1 {
		workers = defaultRosterWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterRepository{dir: dir, workers: workers, logger: logger}
}

// Load returns the parsed teams in file-name order.
func (r *RosterRepository) Load(ctx context.Context) ([]roster.Team, error) {
	names, err := listJSON(r.dir, true)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []roster.Team{}, nil
	}

	pool, err := ants.NewPool(min(r.workers, len(names)))
	if err != nil {
		return nil, fmt.Errorf("create roster worker pool: %w", err)
	}
	defer pool.Release()

	slots := make([]*roster.Team, len(names))
	var failed atomic.Int32
	var workers sync.WaitGroup
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			team, err := r.parse(name)
			if err != nil {
				failed.Add(1)
				r.logger.WarnContext(ctx, "skip roster file", "file", name, "error", err)
				return
			}
			slots[i] = &team
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit roster file to worker pool: %w", err)
		}
	}
	workers.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	teams := make([]roster.Team, 0, len(slots))
	for _, t := range slots {
		if t != nil {
			teams = append(teams, *t)
		}
	}
	r.logger.DebugContext(ctx, "rosters loaded", "files", len(names), "teams", len(teams), "failed", failed.Load())
	return teams, nil
}

func (r *RosterRepository) parse(name string) (roster.Team, error) {
	raw, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return roster.Team{}, crerr.Wrapf(err, "read roster %s", name)
	}
	tree, err := decodeTree(raw)
	if err != nil {
		return roster.Team{}, crerr.Wrapf(err, "decode roster %s", name)
	}
	return roster.ParseFile(name, tree)
}
