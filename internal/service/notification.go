package service

import (
	"context"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"
)

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, caller domain.Caller, unreadOnly bool, page, limit int) (*NotificationPage, error) {
	page, limit = domain.NormalizePage(page, limit, 20)
	notes, total, err := s.repo.List(ctx, caller.AccountID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, internalError(ctx, "list notifications", err)
	}
	unread, err := s.repo.CountUnread(ctx, caller.AccountID)
	if err != nil {
		return nil, internalError(ctx, "count unread notifications", err)
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	return &NotificationPage{
		Notifications: notes,
		UnreadCount:   unread,
		Pagination:    domain.NewPagination(total, page, limit),
	}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, caller domain.Caller) (int64, error) {
	n, err := s.repo.CountUnread(ctx, caller.AccountID)
	if err != nil {
		return 0, internalError(ctx, "count unread notifications", err)
	}
	return n, nil
}

// MarkAsRead only touches entries owned by the caller; anything else reads as not found.
func (s *notificationService) MarkAsRead(ctx context.Context, caller domain.Caller, id string) error {
	if err := s.repo.MarkAsRead(ctx, id, caller.AccountID); err != nil {
		return notFoundOr(ctx, "mark notification read", err, domain.ErrNotificationNotFound)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, caller domain.Caller) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, caller.AccountID)
	if err != nil {
		return 0, internalError(ctx, "mark all notifications read", err)
	}
	return n, nil
}
