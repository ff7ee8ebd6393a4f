package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"mailsbe/internal/model"
	"mailsbe/internal/mq"
	"mailsbe/internal/util"
)

// NotificationInserter is the store surface this handler needs.
type NotificationInserter interface {
	Insert(ctx context.Context, n *model.Notification) error
}

// EmailSeenNotificationHandler turns email.seen events into read-receipt
// notifications for the sender's dashboard.
type EmailSeenNotificationHandler struct {
	repo    NotificationInserter
	logger  *zap.Logger
	deduper *util.Deduper
}

func NewEmailSeenNotificationHandler(repo NotificationInserter, logger *zap.Logger, deduper *util.Deduper) *EmailSeenNotificationHandler {
	return &EmailSeenNotificationHandler{
		repo:    repo,
		logger:  logger,
		deduper: deduper,
	}
}

// HandleEmailSeen writes one notification per tracked email. The queue is
// at-least-once, so redeliveries are suppressed via the redis deduper.
func (h *EmailSeenNotificationHandler) HandleEmailSeen(ctx context.Context, raw json.RawMessage) error {
	var p mq.EmailSeenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// malformed payload, redelivery cannot fix it; ack instead of
		// requeueing the same message forever
		h.logger.Error("Failed to unmarshal email seen payload (non-retryable)", zap.Error(err))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "email_seen_notification", p.EmailID) {
		h.logger.Info("Duplicate email.seen event skipped",
			zap.Int("email_id", p.EmailID),
		)
		return nil
	}

	notif := &model.Notification{
		UserID:  p.UserID,
		EmailID: p.EmailID,
		Message: fmt.Sprintf("Your email to %s was opened: %s", p.Recipient, p.Description),
	}

	if err := h.repo.Insert(ctx, notif); err != nil {
		// give the dedup slot back so the requeued delivery is not
		// skipped as a duplicate; otherwise the receipt is lost for good
		h.deduper.Release(ctx, "email_seen_notification", p.EmailID)
		h.logger.Error("Failed to insert notification",
			zap.Int("email_id", p.EmailID),
			zap.Int("user_id", p.UserID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Read receipt recorded",
		zap.Int("email_id", p.EmailID),
		zap.Int("user_id", p.UserID),
	)

	return nil
}
