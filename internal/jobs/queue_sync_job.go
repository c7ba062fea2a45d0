package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Syncer drains pending offline actions. Implemented by the offline queue.
type Syncer interface {
	Sync(ctx context.Context) error
}

// QueueSyncJob runs the offline queue's safety pass on a schedule, catching
// queued actions whose online-edge sync never fired.
type QueueSyncJob struct {
	syncer Syncer
	cron   *cron.Cron
	logger *slog.Logger
}

// NewQueueSyncJob creates the scheduled safety pass.
func NewQueueSyncJob(syncer Syncer, logger *slog.Logger) *QueueSyncJob {
	return &QueueSyncJob{
		syncer: syncer,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "queue_sync_job"),
	}
}

// Start schedules the safety pass every thirty seconds.
func (j *QueueSyncJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		if err := j.syncer.Sync(ctx); err != nil {
			j.logger.ErrorContext(ctx, "queue sync pass failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "queue sync job started")
	return nil
}

// Stop stops the safety pass schedule.
func (j *QueueSyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "queue sync job stopped")
}
