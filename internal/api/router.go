package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

// NewRouter builds the user-facing API: auth, pixel-URL generation and the
// dashboard read surface.
func NewRouter(
	authHandler *AuthHandler,
	emailHandler *EmailHandler,
	notificationHandler *NotificationHandler,
	jwtSecret string,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/emails", emailHandler.CreateEmail)
		auth.GET("/emails", emailHandler.ListEmails)
		auth.GET("/notifications", notificationHandler.ListNotifications)
	}

	return &Router{Engine: r}
}

// NewTrackerRouter builds the public pixel endpoint. It carries no auth:
// the token in the URL is the only credential a mail client has.
func NewTrackerRouter(pixelHandler *PixelHandler) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/img", pixelHandler.TrackOpen)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
