package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"volunteer-hub-backend/internal/config"
	"volunteer-hub-backend/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers Both Jobs", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			PurgeResetTokens:        "0 0 * * * *",
			SendAttendanceReminders: "0 0 9 * * *",
		}}
		s := NewScheduler(jobs.NewJobRunner(nil, nil, cfg))
		assert.Equal(t, 2, s.Entries())
	})

	t.Run("Skips Invalid Schedule", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			PurgeResetTokens:        "every hour",
			SendAttendanceReminders: "0 0 9 * * *",
		}}
		s := NewScheduler(jobs.NewJobRunner(nil, nil, cfg))
		assert.Equal(t, 1, s.Entries())
	})
}
