package jobs

import (
	"fmt"
)

// JobManager starts and stops the scheduled jobs together.
type JobManager struct {
	releaseBacklogJob *ReleaseBacklogJob
}

func NewJobManager(releaseBacklogJob *ReleaseBacklogJob) *JobManager {
	return &JobManager{
		releaseBacklogJob: releaseBacklogJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.releaseBacklogJob.Start(); err != nil {
		return fmt.Errorf("failed to start release backlog job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.releaseBacklogJob.Stop()
}
