package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"helpdesk-system/backend/internal/dto"
)

// HelpdeskClearer is the part of the helpdesk service the sweep needs.
type HelpdeskClearer interface {
	List(ctx context.Context, activeOnly bool) ([]dto.HelpdeskResponse, error)
	ForceCheckoutAll(ctx context.Context, helpdeskID int) (*dto.ForceCheckoutResponse, error)
}

// CleanupJob force-checks-out every helpdesk. One helpdesk failing does
// not stop the others.
type CleanupJob struct {
	helpdesks HelpdeskClearer
	logger    *zap.Logger
}

// NewCleanupJob creates a CleanupJob.
func NewCleanupJob(helpdesks HelpdeskClearer, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{helpdesks: helpdesks, logger: logger}
}

func (j *CleanupJob) Name() string { return "cleanup" }

// Run sweeps every helpdesk, deleted ones included, and returns an error
// naming how many failed.
func (j *CleanupJob) Run(ctx context.Context) error {
	helpdesks, err := j.helpdesks.List(ctx, false)
	if err != nil {
		return fmt.Errorf("list helpdesks: %w", err)
	}

	var failed int
	var closed, removed int64
	for _, h := range helpdesks {
		res, err := j.helpdesks.ForceCheckoutAll(ctx, h.HelpdeskID)
		if err != nil {
			failed++
			j.logger.Error("helpdesk cleanup failed",
				zap.Int("helpdesk_id", h.HelpdeskID),
				zap.String("helpdesk", h.Name),
				zap.Error(err),
			)
			continue
		}
		closed += res.CheckInsClosed
		removed += res.ItemsRemoved
	}

	j.logger.Info("cleanup sweep done",
		zap.Int("helpdesks", len(helpdesks)),
		zap.Int("failed", failed),
		zap.Int64("check_ins_closed", closed),
		zap.Int64("items_removed", removed),
	)

	if failed > 0 {
		return fmt.Errorf("cleanup failed for %d of %d helpdesks", failed, len(helpdesks))
	}
	return nil
}
