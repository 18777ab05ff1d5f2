package jobs

import (
	"context"

	"volunteer-hub-backend/internal/logger"
)

// PurgeResetTokens clears password reset tokens whose expiry has passed
func (jr *JobRunner) PurgeResetTokens() {
	jr.runWithRecovery("PurgeResetTokens", func(ctx context.Context) {
		if _, err := jr.purgeResetTokens(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to purge expired reset tokens", "error", err)
		}
	})
}

func (jr *JobRunner) purgeResetTokens(ctx context.Context) (int64, error) {
	n, err := jr.store.Accounts().ClearExpiredResetTokens(ctx, jr.now())
	if err != nil {
		return 0, err
	}
	logger.InfoContext(ctx, "Expired reset tokens purged", "count", n)
	return n, nil
}
