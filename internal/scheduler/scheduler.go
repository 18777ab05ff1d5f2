package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"volunteer-hub-backend/internal/jobs"
	"volunteer-hub-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner.
// A job whose schedule cannot be parsed is logged and left unregistered.
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// UTC with seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	registered := 0
	for _, j := range []struct {
		name string
		spec string
		fn   func()
	}{
		{jobs.JobPurgeResetTokens, cfg.PurgeResetTokens, s.jobs.PurgeResetTokens},
		{jobs.JobSendAttendanceReminders, cfg.SendAttendanceReminders, s.jobs.SendAttendanceReminders},
	} {
		if _, err := s.cron.AddFunc(j.spec, j.fn); err != nil {
			logger.Error("Failed to register job", "job", j.name, "schedule", j.spec, "error", err)
			continue
		}
		registered++
	}

	logger.Info("Cron jobs registered", "count", registered)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
