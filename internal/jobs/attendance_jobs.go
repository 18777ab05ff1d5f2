package jobs

import (
	"context"
	"fmt"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
)

// SendAttendanceReminders emails organizations whose recently ended
// opportunities still have confirmed volunteers without a marked attendance.
func (jr *JobRunner) SendAttendanceReminders() {
	jr.runWithRecovery("SendAttendanceReminders", func(ctx context.Context) {
		if _, err := jr.sendAttendanceReminders(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to send attendance reminders", "error", err)
		}
	})
}

func (jr *JobRunner) sendAttendanceReminders(ctx context.Context) (int, error) {
	now := jr.now()
	lookback := time.Duration(jr.config.Scheduler.AttendanceLookbackHours) * time.Hour

	opps, err := jr.store.Opportunities().ListEndedBetween(ctx, now.Add(-lookback), now)
	if err != nil {
		return 0, fmt.Errorf("failed to list ended opportunities: %w", err)
	}

	sent := 0
	for i := range opps {
		opp := &opps[i]
		unmarked, err := jr.store.Signups().CountByOpportunity(ctx, opp.ID, domain.SignupConfirmed)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to count confirmed signups", "opportunity_id", opp.ID, "error", err)
			continue
		}
		if unmarked == 0 {
			continue
		}

		org, email, err := jr.organizationContact(ctx, opp.OrganizationID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to resolve organization contact",
				"opportunity_id", opp.ID,
				"organization_id", opp.OrganizationID,
				"error", err)
			continue
		}

		if err := jr.email.SendAttendanceReminder(ctx, email, org.OrganizationName, opp.Title, unmarked); err != nil {
			logger.ErrorContext(ctx, "Failed to send attendance reminder",
				"opportunity_id", opp.ID,
				"email", email,
				"error", err)
			continue
		}
		sent++
		logger.DebugContext(ctx, "Sent attendance reminder", "opportunity_id", opp.ID, "unmarked", unmarked)
	}

	logger.InfoContext(ctx, "Attendance reminders sent", "count", sent, "candidates", len(opps))
	return sent, nil
}

// organizationContact prefers the profile's contact email and falls back to the account login.
func (jr *JobRunner) organizationContact(ctx context.Context, organizationID string) (*domain.OrganizationProfile, string, error) {
	org, err := jr.store.Organizations().GetByID(ctx, organizationID)
	if err != nil {
		return nil, "", err
	}
	if org.ContactEmail != "" {
		return org, org.ContactEmail, nil
	}
	account, err := jr.store.Accounts().GetByID(ctx, org.AccountID)
	if err != nil {
		return nil, "", err
	}
	return org, account.Email, nil
}
