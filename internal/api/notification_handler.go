package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mailsbe/internal/model"
)

// NotificationStore is the read surface the notifications endpoint needs.
type NotificationStore interface {
	ListByUser(ctx context.Context, userID int) ([]model.Notification, error)
}

type NotificationHandler struct {
	notifications NotificationStore
}

func NewNotificationHandler(notifications NotificationStore) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

// ListNotifications handles GET /notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	notifications, err := h.notifications.ListByUser(c.Request.Context(), userID.(int))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	type notificationResponse struct {
		ID        int       `json:"id"`
		EmailID   int       `json:"email_id"`
		Message   string    `json:"message"`
		CreatedAt time.Time `json:"created_at"`
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{
			ID:        n.ID,
			EmailID:   n.EmailID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"notifications": out})
}
