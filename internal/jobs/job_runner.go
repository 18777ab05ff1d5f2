package jobs

import (
	"context"
	"time"

	"volunteer-hub-backend/internal/config"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/service"
)

// Job names accepted by RunByName.
const (
	JobPurgeResetTokens        = "purge-reset-tokens"
	JobSendAttendanceReminders = "send-attendance-reminders"
	JobAll                     = "all"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store  repository.Store
	email  service.EmailService
	config *config.Config
	now    func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:  store,
		email:  email,
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Config exposes the configuration the scheduler reads its cron specs from.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx := logger.WithContext(context.Background(), "job", jobName)
	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.PurgeResetTokens()
	jr.SendAttendanceReminders()
}

// RunByName runs a single job and reports whether the name was known.
func (jr *JobRunner) RunByName(name string) bool {
	switch name {
	case JobPurgeResetTokens:
		jr.PurgeResetTokens()
	case JobSendAttendanceReminders:
		jr.SendAttendanceReminders()
	case JobAll:
		jr.RunAll()
	default:
		return false
	}
	return true
}

// JobNames lists the names RunByName accepts.
func JobNames() []string {
	return []string{JobPurgeResetTokens, JobSendAttendanceReminders, JobAll}
}
