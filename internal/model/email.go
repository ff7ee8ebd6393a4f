package model

import "time"

// Email is one tracked email. Token correlates the pixel URL to exactly one
// row; Seen/SeenAt record the first open only and are never rewritten.
type Email struct {
	ID          int
	UserID      int
	Token       string
	Recipient   string
	Description string
	SenderName  string
	Seen        bool
	SeenAt      *time.Time
	CreatedAt   time.Time
}
