// Package scheduler runs the recurring background jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/J-cmar/hedgebets/internal/health"
	"github.com/J-cmar/hedgebets/internal/metrics"
	"github.com/J-cmar/hedgebets/internal/ml"
)

// Scheduler manages the service's periodic jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// New creates a new scheduler
func New(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleModelHealthProbe pings the model service on the given cron
// schedule, flipping the readiness flag and the availability gauge.
func (s *Scheduler) ScheduleModelHealthProbe(schedule string, client ml.Client, healthServer *health.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.HealthCheck(ctx); err != nil {
			s.logger.WithError(err).Warn("Model service health probe failed")
			metrics.SetModelServiceUp(false)
			if healthServer != nil {
				healthServer.SetReady(false)
			}
			return
		}

		metrics.SetModelServiceUp(true)
		if healthServer != nil && !healthServer.IsReady() {
			s.logger.Info("Model service recovered, marking ready")
			healthServer.SetReady(true)
		}
	}

	entryID, err := s.cron.AddFunc(schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", schedule).Info("Scheduled model service health probe")

	return nil
}

// ScheduleCacheStatsExport periodically logs prediction cache statistics.
func (s *Scheduler) ScheduleCacheStatsExport(schedule string, client *ml.CachedClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		hits, misses, ratio := client.CacheStats()
		s.logger.WithFields(logrus.Fields{
			"hits":      hits,
			"misses":    misses,
			"hit_ratio": ratio,
		}).Debug("Prediction cache statistics")
	}

	entryID, err := s.cron.AddFunc(schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", schedule).Info("Scheduled cache statistics export")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
