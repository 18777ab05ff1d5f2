package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/service"
)

func TestNotifier_BestEffort(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists Then Pushes", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		push := new(MockPushService)
		n := service.NewNotifier(repo, push)

		repo.On("Create", ctx, mock.MatchedBy(func(note *domain.Notification) bool {
			return note.AccountID == "acc-1" && note.Type == domain.NotificationLevelUp && !note.IsRead
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Notification).ID = "n-1"
		}).Return(nil)
		push.On("Push", ctx, mock.MatchedBy(func(note *domain.Notification) bool { return note.ID == "n-1" })).Return(nil)

		n.Notify(ctx, "acc-1", domain.NotificationLevelUp, "Level up!", "You reached level 2.")
		repo.AssertExpectations(t)
		push.AssertExpectations(t)
	})

	t.Run("Store Failure Is Swallowed", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		push := new(MockPushService)
		n := service.NewNotifier(repo, push)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		assert.NotPanics(t, func() {
			n.Notify(ctx, "acc-1", domain.NotificationNewSignup, "t", "m")
		})
		push.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
	})

	t.Run("Push Failure Is Swallowed", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		push := new(MockPushService)
		n := service.NewNotifier(repo, push)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		push.On("Push", ctx, mock.Anything).Return(errors.New("fcm unavailable"))

		n.Notify(ctx, "acc-1", domain.NotificationNewSignup, "t", "m")
		push.AssertExpectations(t)
	})

	t.Run("No Push Configured", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		n := service.NewNotifier(repo, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		n.Notify(ctx, "acc-1", domain.NotificationNewSignup, "t", "m")
		repo.AssertNumberOfCalls(t, "Create", 1)
	})
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	caller := domain.Caller{AccountID: "acc-1", Kind: domain.AccountKindVolunteer}

	t.Run("List", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("List", ctx, "acc-1", true, 20, 0).Return([]domain.Notification{{ID: "n-1"}}, int64(1), nil)
		repo.On("CountUnread", ctx, "acc-1").Return(int64(1), nil)

		page, err := svc.List(ctx, caller, true, 0, 0)
		require.NoError(t, err)
		assert.Len(t, page.Notifications, 1)
		assert.Equal(t, int64(1), page.UnreadCount)
		assert.Equal(t, 1, page.Pagination.TotalPages)
	})

	t.Run("Mark Foreign Notification", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("MarkAsRead", ctx, "n-2", "acc-1").Return(repository.ErrNotFound)

		err := svc.MarkAsRead(ctx, caller, "n-2")
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})

	t.Run("Mark All", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		svc := service.NewNotificationService(repo)
		repo.On("MarkAllAsRead", ctx, "acc-1").Return(int64(3), nil)

		n, err := svc.MarkAllAsRead(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
