package postgres

import (
	"context"
	"database/sql"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "accountID", n.AccountID, "type", n.Type)
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedOn = time.Now().UTC()
	query := `INSERT INTO notifications (id, account_id, type, title, message, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("INSERT", "notifications", "accountID", n.AccountID)
	_, err := r.db.ExecContext(ctx, query, n.ID, n.AccountID, string(n.Type), n.Title, n.Message, n.IsRead, n.CreatedOn)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "accountID", n.AccountID)
		return translate(err)
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int64, error) {
	where := ` WHERE account_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications`+where, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, account_id, type, title, message, is_read, created_on FROM notifications` + where +
		` ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.AccountID, &typ, &n.Title, &n.Message, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		n.Type = domain.NotificationType(typ)
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, accountID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE account_id = $1 AND is_read = FALSE`, accountID).Scan(&n)
	return n, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, accountID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND account_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, accountID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, accountID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE account_id = $1 AND is_read = FALSE`, accountID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
