package usecase

import (
	"context"

	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

// Deleter removes one canonical document.
type Deleter interface {
	Delete(ctx context.Context, eventID string) error
}

type OrphanReport struct {
	Deleted []string
	Failed  []string
}

// ReconcileOrphans deletes every output id that has no source. A failed delete
// is logged and counted; the remaining orphans are still processed.
func ReconcileOrphans(ctx context.Context, sourceIDs, outputIDs []string, deleter Deleter, logger *logging.Logger) OrphanReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileOrphans")
	defer span.End()

	if logger == nil {
		logger = logging.Default()
	}
	live := make(map[string]struct{}, len(sourceIDs))
	for _, id := range sourceIDs {
		live[id] = struct{}{}
	}

	var report OrphanReport
	for _, id := range outputIDs {
		if _, ok := live[id]; ok {
			continue
		}
		if err := deleter.Delete(ctx, id); err != nil {
			logger.WarnContext(ctx, "delete orphan failed", "event_id", id, "error", err)
			report.Failed = append(report.Failed, id)
			continue
		}
		report.Deleted = append(report.Deleted, id)
	}
	if len(report.Deleted) > 0 {
		logger.InfoContext(ctx, "orphans removed", "count", len(report.Deleted))
	}
	return report
}
