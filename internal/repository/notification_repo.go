package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mailsbe/internal/model"
	"mailsbe/pkg/metrics"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("insert", "notifications", time.Since(start))
	}()

	query := `
        INSERT INTO notifications (user_id, email_id, message, created_at)
        VALUES ($1, $2, $3, NOW())
    `
	_, err := r.db.Exec(ctx, query, n.UserID, n.EmailID, n.Message)
	return err
}

// ListByUser returns a user's read-receipt notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int) ([]model.Notification, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("list_by_user", "notifications", time.Since(start))
	}()

	query := `
        SELECT id, user_id, email_id, message, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []model.Notification{}

	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.EmailID, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
