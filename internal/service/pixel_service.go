package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"mailsbe/internal/model"
	"mailsbe/internal/mq"
)

// ErrEmailNotFound means no tracked email matches the supplied token. A
// missing record indicates a malformed or forged pixel URL, not a normal
// already-tracked state, so callers surface it instead of serving the pixel.
var ErrEmailNotFound = errors.New("no email found")

// EmailStore is the store surface the pixel path consumes.
type EmailStore interface {
	FindByToken(ctx context.Context, token string) (*model.Email, error)
	MarkSeen(ctx context.Context, id int, seenAt time.Time) (int64, error)
}

// EventPublisher publishes domain events to the topic exchange.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// PixelService applies the idempotent mark-seen transition when a tracking
// pixel is fetched.
type PixelService struct {
	emails    EmailStore
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewPixelService(emails EmailStore, publisher EventPublisher, logger *zap.Logger) *PixelService {
	return &PixelService{
		emails:    emails,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// TrackOpen resolves a token to its tracked email and marks it seen on the
// first fetch. Repeat fetches are successful no-ops: mail clients prefetch,
// proxy images and reload on scroll, and none of that may rewrite the
// original open time. The update is a single conditional statement, so two
// concurrent fetches of the same token race safely in the store; the loser
// sees zero affected rows and still reports success. The returned bool is
// true only when this call performed the transition.
func (s *PixelService) TrackOpen(ctx context.Context, token string) (bool, error) {
	e, err := s.emails.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrEmailNotFound
		}
		return false, fmt.Errorf("lookup token: %w", err)
	}

	if e.Seen {
		return false, nil
	}

	seenAt := s.now().UTC()
	affected, err := s.emails.MarkSeen(ctx, e.ID, seenAt)
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	if affected == 0 {
		// Lost the race to a concurrent fetch; the row already carries the
		// first open time.
		return false, nil
	}

	payload := mq.EmailSeenPayload{
		EmailID:     e.ID,
		UserID:      e.UserID,
		Recipient:   e.Recipient,
		Description: e.Description,
		SeenAt:      seenAt,
	}
	if err := s.publisher.Publish("email.seen", payload); err != nil {
		// The transition is already committed; the read-receipt feed is
		// best-effort and must not fail the pixel response.
		s.logger.Error("Failed to publish email.seen",
			zap.Int("email_id", e.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Email marked as seen",
		zap.Int("email_id", e.ID),
		zap.Int("user_id", e.UserID),
		zap.Time("seen_at", seenAt),
	)

	return true, nil
}
