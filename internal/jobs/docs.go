// Package jobs provides the scheduled background tasks, built on
// github.com/robfig/cron/v3.
//
// RiderAssignmentJob runs the dispatch pass every second in the API server:
// orders awaiting assignment are offered to available riders. QueueSyncJob
// runs the offline queue's safety pass every thirty seconds in the rider
// daemon.
//
// Binaries bundle their jobs behind a JobManager:
//
//	jobManager := jobs.NewJobManager(jobs.NewRiderAssignmentJob(handler, logger))
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer jobManager.StopAll()
//
// A job failing to start stops the jobs already running before the error is
// returned.
package jobs
