package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/metrics"
)

// RiderAssignmentJob runs the dispatch pass on a schedule. Every second it
// offers orders awaiting assignment to the nearest available riders.
type RiderAssignmentJob struct {
	handler commands.AssignRiderCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewRiderAssignmentJob creates the scheduled dispatch job.
func NewRiderAssignmentJob(handler commands.AssignRiderCommandHandler, logger *slog.Logger) *RiderAssignmentJob {
	return &RiderAssignmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "rider_assignment_job"),
	}
}

// Start schedules the dispatch pass to run every second.
func (j *RiderAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAssignRiderCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			metrics.AssignmentPasses.WithLabelValues("error").Inc()
			j.logger.ErrorContext(ctx, "dispatch pass failed", "error", err)
			return
		}

		metrics.AssignmentPasses.WithLabelValues("ok").Inc()
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "rider assignment job started")
	return nil
}

// Stop stops the dispatch schedule.
func (j *RiderAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "rider assignment job stopped")
}
