package mq

import "time"

// EmailCreatedPayload is published when a tracked email is issued.
type EmailCreatedPayload struct {
	EmailID   int       `json:"email_id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"token"`
	Recipient string    `json:"recipient"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailSeenPayload is published exactly once per tracked email, when the
// pixel fetch wins the first-seen transition.
type EmailSeenPayload struct {
	EmailID     int       `json:"email_id"`
	UserID      int       `json:"user_id"`
	Recipient   string    `json:"recipient"`
	Description string    `json:"description"`
	SeenAt      time.Time `json:"seen_at"`
}
