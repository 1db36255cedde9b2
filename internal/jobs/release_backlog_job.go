package jobs

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultBacklogSchedule runs the report at the start of every minute.
const DefaultBacklogSchedule = "0 * * * * *"

type BacklogReader interface {
	Handle(ctx context.Context, query queries.GetReleaseBacklogQuery) (queries.GetReleaseBacklogQueryResponse, error)
}

// ReleaseBacklogJob reports how much money waits in escrow for an
// administrator to release it. It only reads; releasing stays a manual action.
type ReleaseBacklogJob struct {
	reader    BacklogReader
	schedule  string
	warnAfter time.Duration
	now       func() time.Time
	cron      *cron.Cron
	logger    logrus.FieldLogger
}

// NewReleaseBacklogJob creates the job. Records delivered more than warnAfter
// ago are reported as overdue.
func NewReleaseBacklogJob(
	reader BacklogReader,
	schedule string,
	warnAfter time.Duration,
	logger logrus.FieldLogger,
) *ReleaseBacklogJob {
	if schedule == "" {
		schedule = DefaultBacklogSchedule
	}
	return &ReleaseBacklogJob{
		reader:    reader,
		schedule:  schedule,
		warnAfter: warnAfter,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.WithField("component", "release_backlog_job"),
	}
}

func (j *ReleaseBacklogJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if err := j.Run(context.Background()); err != nil {
			j.logger.WithError(err).Error("release backlog report failed")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("release backlog job started")
	return nil
}

// Stop waits for a running report to finish.
func (j *ReleaseBacklogJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("release backlog job stopped")
}

// Run reads the backlog once and publishes it as gauges.
func (j *ReleaseBacklogJob) Run(ctx context.Context) error {
	now := j.now()
	backlog, err := j.reader.Handle(ctx, queries.NewGetReleaseBacklogQuery(now.Add(-j.warnAfter)))
	if err != nil {
		return err
	}

	metrics.EscrowAwaitingRelease.Set(float64(backlog.Count))
	metrics.EscrowAwaitingReleaseOverdue.Set(float64(backlog.Overdue))
	metrics.EscrowHeldAwaitingRelease.Set(backlog.HeldTotal.Amount().InexactFloat64())

	var oldestAge time.Duration
	if backlog.OldestDeliveredAt != nil {
		oldestAge = now.Sub(*backlog.OldestDeliveredAt)
	}
	metrics.EscrowOldestAwaitingSeconds.Set(oldestAge.Seconds())

	if backlog.Overdue > 0 {
		j.logger.WithFields(logrus.Fields{
			"awaiting_release": backlog.Count,
			"overdue":          backlog.Overdue,
			"held_total":       backlog.HeldTotal.String(),
			"oldest_age":       oldestAge.Round(time.Minute).String(),
		}).Warn("escrow awaiting release longer than expected")
	}
	return nil
}
