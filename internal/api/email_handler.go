package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mailsbe/internal/model"
	"mailsbe/internal/service"
	"mailsbe/pkg/metrics"
)

type EmailHandler struct {
	trackingService *service.TrackingService
}

func NewEmailHandler(trackingService *service.TrackingService) *EmailHandler {
	return &EmailHandler{
		trackingService: trackingService,
	}
}

type emailResponse struct {
	ID          int        `json:"id"`
	Recipient   string     `json:"recipient"`
	Description string     `json:"description"`
	SenderName  string     `json:"sender_name"`
	Seen        bool       `json:"seen"`
	SeenAt      *time.Time `json:"seen_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toEmailResponse(e model.Email) emailResponse {
	return emailResponse{
		ID:          e.ID,
		Recipient:   e.Recipient,
		Description: e.Description,
		SenderName:  e.SenderName,
		Seen:        e.Seen,
		SeenAt:      e.SeenAt,
		CreatedAt:   e.CreatedAt,
	}
}

// CreateEmail handles POST /emails. It issues the token and returns the
// pixel URL the user pastes into the outgoing message; sending the email
// itself happens in the user's own mail client.
func (h *EmailHandler) CreateEmail(c *gin.Context) {
	var req struct {
		Recipient   string `json:"recipient" binding:"required,email"`
		Description string `json:"description"`
		SenderName  string `json:"sender_name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	e, pixelURL, err := h.trackingService.CreateTrackedEmail(
		c.Request.Context(), userID.(int), req.Recipient, req.Description, req.SenderName,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tracked email"})
		return
	}

	metrics.TrackedEmailCreatedCount.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"email_id":  e.ID,
		"token":     e.Token,
		"pixel_url": pixelURL,
	})
}

// ListEmails handles GET /emails
func (h *EmailHandler) ListEmails(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	emails, err := h.trackingService.ListTrackedEmails(c.Request.Context(), userID.(int))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch emails"})
		return
	}

	out := make([]emailResponse, 0, len(emails))
	for _, e := range emails {
		out = append(out, toEmailResponse(e))
	}

	c.JSON(http.StatusOK, gin.H{"emails": out})
}
