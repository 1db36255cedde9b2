// Package jobs provides scheduled background tasks of the fulfillment service.
//
// Jobs are built on github.com/robfig/cron/v3 with second precision. None of
// them mutates orders or escrow: money only moves on an explicit request.
//
// # Available Jobs
//
// ReleaseBacklogJob reads the admin release queue and exports it as
// Prometheus gauges (escrow_awaiting_release, escrow_awaiting_release_overdue,
// escrow_held_awaiting_release_amount, escrow_oldest_awaiting_release_seconds).
// It logs a warning while records wait longer than the configured threshold.
//
// # Usage
//
//	backlogJob := jobs.NewReleaseBacklogJob(backlogHandler, "0 * * * * *", 72*time.Hour, logger)
//	jobManager := jobs.NewJobManager(backlogJob)
//	if err := jobManager.StartAll(); err != nil {
//		logger.WithError(err).Fatal("failed to start jobs")
//	}
//	defer jobManager.StopAll()
package jobs
