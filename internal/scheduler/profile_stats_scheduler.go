package scheduler

import (
	"context"
	"time"

	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 5 * time.Minute

// StatsRefresher recomputes the denormalised profile counters
type StatsRefresher interface {
	RefreshStats(ctx context.Context) (int, error)
}

// ProfileStatsScheduler periodically refreshes the gear and trip counters
// shown on public profiles
type ProfileStatsScheduler struct {
	cron      *cron.Cron
	schedule  string
	refresher StatsRefresher
}

func NewProfileStatsScheduler(refresher StatsRefresher, schedule string) *ProfileStatsScheduler {
	return &ProfileStatsScheduler{
		cron:      cron.New(),
		schedule:  schedule,
		refresher: refresher,
	}
}

// Start registers the refresh job and starts the cron runner
func (s *ProfileStatsScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.Run); err != nil {
		logger.Error("Failed to add cron job for profile stats refresh", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Profile stats scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// Run performs one refresh
func (s *ProfileStatsScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	started := time.Now()
	logger.Info("Starting scheduled profile stats refresh")

	refreshed, err := s.refresher.RefreshStats(ctx)
	if err != nil {
		logger.Error("Failed to refresh profile stats", err, map[string]interface{}{
			"refreshed": refreshed,
		})
		return
	}

	logger.Info("Profile stats refreshed", map[string]interface{}{
		"refreshed":   refreshed,
		"duration_ms": time.Since(started).Milliseconds(),
	})
}

// Stop waits for a running job to finish
func (s *ProfileStatsScheduler) Stop() {
	logger.Info("Stopping profile stats scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Profile stats scheduler stopped")
}
