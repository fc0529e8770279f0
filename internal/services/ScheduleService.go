package services

import (
	"context"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/tracker"
)

// ScheduleServiceInterface passes run edits through to the tracker. Runs are
// not held locally.
type ScheduleServiceInterface interface {
	MoveRun(ctx context.Context, runID int, move models.RunMove) ([]*models.Run, error)
	PatchRun(ctx context.Context, runID int, patch models.RunPatch) (*models.Run, error)
}

type ScheduleService struct {
	client  tracker.ClientInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewScheduleService(client tracker.ClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) ScheduleServiceInterface {
	return &ScheduleService{client: client, logger: logger, metrics: metrics}
}

func (ss *ScheduleService) MoveRun(ctx context.Context, runID int, move models.RunMove) ([]*models.Run, error) {
	runs, err := ss.client.MoveRun(ctx, runID, move)
	ss.metrics.IncMutations("run_move", err == nil)
	if err != nil {
		ss.logger.Warnf(providers.TypePost, "move run %d failed: %v", runID, err)
		return nil, err
	}
	return runs, nil
}

func (ss *ScheduleService) PatchRun(ctx context.Context, runID int, patch models.RunPatch) (*models.Run, error) {
	run, err := ss.client.PatchRun(ctx, runID, patch)
	ss.metrics.IncMutations("run_patch", err == nil)
	if err != nil {
		ss.logger.Warnf(providers.TypePost, "patch run %d failed: %v", runID, err)
		return nil, err
	}
	return run, nil
}
