package jobs

import "fmt"

// Job is one scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates a binary's scheduled jobs behind a single
// start/stop interface.
type JobManager struct {
	jobs []Job
}

// NewJobManager creates a manager over the given jobs. They start in the
// order given and stop in reverse.
func NewJobManager(jobs ...Job) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts every job. When one fails to start, the jobs already
// running are stopped before the error is returned.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for started := i - 1; started >= 0; started-- {
				jm.jobs[started].Stop()
			}
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
	}

	return nil
}

// StopAll stops every job in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].Stop()
	}
}
