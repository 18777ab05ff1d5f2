package postgres_test

import (
	"context"
	"testing"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM notifications WHERE account_id = \\$1 AND is_read = FALSE").
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE account_id = \\$1 AND is_read = FALSE ORDER BY created_on DESC").
		WithArgs("a-1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "type", "title", "message", "is_read", "created_on"}).
			AddRow("n-1", "a-1", "level_up", "Level up!", "You reached level 2", false, now))

	notes, total, err := repo.List(context.Background(), "a-1", true, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationLevelUp, notes[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET is_read = TRUE WHERE id = \\$1 AND account_id = \\$2").
		WithArgs("n-1", "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE notifications SET is_read = TRUE WHERE id = \\$1 AND account_id = \\$2").
		WithArgs("n-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.MarkAsRead(context.Background(), "n-1", "a-1"))
	assert.ErrorIs(t, repo.MarkAsRead(context.Background(), "n-1", "intruder"), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
