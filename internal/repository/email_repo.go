package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mailsbe/internal/model"
	"mailsbe/pkg/metrics"
)

type EmailRepository struct {
	db *pgxpool.Pool
}

func NewEmailRepository(db *pgxpool.Pool) *EmailRepository {
	return &EmailRepository{db: db}
}

// Create inserts a tracked email. The UNIQUE constraint on token surfaces
// a collision as an insert error.
func (r *EmailRepository) Create(ctx context.Context, e *model.Email) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("create", "emails", time.Since(start))
	}()

	query := `
        INSERT INTO emails (user_id, token, recipient, description, sender_name, seen, created_at)
        VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		e.UserID, e.Token, e.Recipient, e.Description, e.SenderName,
	).Scan(&id)
	return id, err
}

// FindByToken returns the tracked email a pixel token resolves to.
func (r *EmailRepository) FindByToken(ctx context.Context, token string) (*model.Email, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("find_by_token", "emails", time.Since(start))
	}()

	query := `
        SELECT id, user_id, token, recipient, description, sender_name, seen, seen_at, created_at
        FROM emails
        WHERE token = $1
    `
	var e model.Email
	err := r.db.QueryRow(ctx, query, token).Scan(
		&e.ID,
		&e.UserID,
		&e.Token,
		&e.Recipient,
		&e.Description,
		&e.SenderName,
		&e.Seen,
		&e.SeenAt,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarkSeen performs the first-seen transition as a single conditional
// update. It returns the number of affected rows: 1 when this call won the
// transition, 0 when the email was already seen. The store linearizes
// concurrent fetches of the same token; seen_at is never rewritten.
func (r *EmailRepository) MarkSeen(ctx context.Context, id int, seenAt time.Time) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("mark_seen", "emails", time.Since(start))
	}()

	query := `
        UPDATE emails
        SET seen = TRUE, seen_at = $2
        WHERE id = $1 AND seen = FALSE
    `
	tag, err := r.db.Exec(ctx, query, id, seenAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByUser returns all tracked emails for a user, newest first.
func (r *EmailRepository) ListByUser(ctx context.Context, userID int) ([]model.Email, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("list_by_user", "emails", time.Since(start))
	}()

	query := `
        SELECT id, user_id, token, recipient, description, sender_name, seen, seen_at, created_at
        FROM emails
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.Email{}

	for rows.Next() {
		var e model.Email
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Token,
			&e.Recipient,
			&e.Description,
			&e.SenderName,
			&e.Seen,
			&e.SeenAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}

	return emails, rows.Err()
}
