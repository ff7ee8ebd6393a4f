package model

import "time"

type Notification struct {
	ID        int
	UserID    int
	EmailID   int
	Message   string
	CreatedAt time.Time
}
