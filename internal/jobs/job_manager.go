package jobs

import (
	"fmt"
	"log/slog"

	"courierhub/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs of the application.
type JobManager struct {
	orderReofferJob *OrderReofferJob
}

// NewJobManager creates a job manager wired with every background job.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	pickups pickupSource,
	notifier notifier,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderReofferJob: NewOrderReofferJob(uowFactory, pickups, notifier, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.orderReofferJob.Start(); err != nil {
		return fmt.Errorf("failed to start order re-offer job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs.
func (jm *JobManager) StopAll() {
	jm.orderReofferJob.Stop()
}
