package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/internal/platform/logger"
	"github.com/terraverde/terraverde-api/internal/species/query"
)

type StatisticsRefresher interface {
	RefreshStatistics(ctx context.Context) (query.Statistics, error)
}

type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, total int) error
}

// Scheduler runs periodic maintenance. Specs use the six field cron format
// with a leading seconds column.
type Scheduler struct {
	cron    *cron.Cron
	species StatisticsRefresher
	reports SnapshotRecorder
	log     *zap.Logger
	timeout time.Duration
}

func NewScheduler(species StatisticsRefresher, reports SnapshotRecorder, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		species: species,
		reports: reports,
		log:     logger.OrNop(log),
		timeout: 2 * time.Minute,
	}
}

// Schedule registers the statistics snapshot job. An empty spec disables it.
func (s *Scheduler) Schedule(statisticsSpec string) error {
	if statisticsSpec == "" {
		s.log.Info("statistics snapshot job disabled")
		return nil
	}
	_, err := s.cron.AddFunc(statisticsSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.RunStatisticsSnapshot(ctx); err != nil {
			s.log.Error("statistics snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule statistics snapshot %q: %w", statisticsSpec, err)
	}
	s.log.Info("statistics snapshot job scheduled", zap.String("spec", statisticsSpec))
	return nil
}

// RunStatisticsSnapshot recomputes the cached statistics and archives the
// species total.
func (s *Scheduler) RunStatisticsSnapshot(ctx context.Context) error {
	start := time.Now()
	st, err := s.species.RefreshStatistics(ctx)
	if err != nil {
		return fmt.Errorf("refresh statistics: %w", err)
	}
	if err := s.reports.RecordSnapshot(ctx, st.Total); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	s.log.Info("statistics snapshot completed",
		zap.Int("species", st.Total),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}
