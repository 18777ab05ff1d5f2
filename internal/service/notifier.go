package service

import (
	"context"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
)

type notifier struct {
	repo repository.NotificationRepository
	push PushService
}

// NewNotifier persists feed entries and, when push is non-nil, forwards them
// to the account's devices. Failures are logged and swallowed.
func NewNotifier(repo repository.NotificationRepository, push PushService) Notifier {
	return &notifier{repo: repo, push: push}
}

func (n *notifier) Notify(ctx context.Context, accountID string, kind domain.NotificationType, title, message string) {
	if accountID == "" {
		logger.WarnContext(ctx, "Notification dropped, no recipient", "type", kind)
		return
	}
	note := &domain.Notification{
		AccountID: accountID,
		Type:      kind,
		Title:     title,
		Message:   message,
	}
	if err := n.repo.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "Failed to create notification", "account_id", accountID, "type", kind, "error", err)
		return
	}
	if n.push == nil {
		return
	}
	if err := n.push.Push(ctx, note); err != nil {
		logger.WarnContext(ctx, "Failed to push notification", "account_id", accountID, "notification_id", note.ID, "error", err)
	}
}
