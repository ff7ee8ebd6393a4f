package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mailsbe/internal/model"
	"mailsbe/internal/mq"
)

// TrackedEmailStore is the store surface the generator consumes.
type TrackedEmailStore interface {
	Create(ctx context.Context, e *model.Email) (int, error)
	ListByUser(ctx context.Context, userID int) ([]model.Email, error)
}

// TrackingService issues pixel tokens and the tracked-email rows behind
// them. Tokens are random UUIDs rather than timestamps, so two compositions
// in the same clock tick cannot alias each other; the store's UNIQUE
// constraint backs that up.
type TrackingService struct {
	emails    TrackedEmailStore
	publisher EventPublisher
	baseURL   string
}

func NewTrackingService(emails TrackedEmailStore, publisher EventPublisher, baseURL string) *TrackingService {
	return &TrackingService{
		emails:    emails,
		publisher: publisher,
		baseURL:   baseURL,
	}
}

// CreateTrackedEmail persists a new tracked email with a fresh token and
// returns it together with the pixel URL to embed in the outgoing message.
func (s *TrackingService) CreateTrackedEmail(ctx context.Context, userID int, recipient, description, senderName string) (*model.Email, string, error) {
	e := &model.Email{
		UserID:      userID,
		Token:       uuid.NewString(),
		Recipient:   recipient,
		Description: description,
		SenderName:  senderName,
		CreatedAt:   time.Now(),
	}

	id, err := s.emails.Create(ctx, e)
	if err != nil {
		return nil, "", fmt.Errorf("create tracked email: %w", err)
	}
	e.ID = id

	payload := mq.EmailCreatedPayload{
		EmailID:   id,
		UserID:    userID,
		Token:     e.Token,
		Recipient: recipient,
		CreatedAt: e.CreatedAt,
	}
	if err := s.publisher.Publish("email.created", payload); err != nil {
		return nil, "", fmt.Errorf("publish email.created: %w", err)
	}

	return e, s.PixelURL(e.Token), nil
}

// PixelURL composes the tracking URL for a token.
func (s *TrackingService) PixelURL(token string) string {
	return fmt.Sprintf("%s/img?text=%s", s.baseURL, token)
}

// ListTrackedEmails returns the caller's tracked emails for the dashboard.
func (s *TrackingService) ListTrackedEmails(ctx context.Context, userID int) ([]model.Email, error) {
	return s.emails.ListByUser(ctx, userID)
}
