package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsbe/internal/service"
	"mailsbe/pkg/metrics"
)

// 1x1 transparent GIF
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

type PixelHandler struct {
	pixels *service.PixelService
	logger *zap.Logger
}

func NewPixelHandler(pixels *service.PixelService, logger *zap.Logger) *PixelHandler {
	return &PixelHandler{
		pixels: pixels,
		logger: logger,
	}
}

// TrackOpen handles GET /img?text=<token>, the pixel fetch. Whenever a
// tracked email exists for the token the response is the image, so the
// recipient's mail client never renders a broken pixel; JSON errors are
// reserved for malformed or forged URLs and store failures.
func (h *PixelHandler) TrackOpen(c *gin.Context) {
	token := c.Query("text")
	if token == "" {
		metrics.RecordPixelFetch("missing_token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No image token provided"})
		return
	}

	transitioned, err := h.pixels.TrackOpen(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotFound) {
			metrics.RecordPixelFetch("not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "No email found"})
			return
		}
		metrics.RecordPixelFetch("error")
		h.logger.Error("Pixel fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if transitioned {
		metrics.RecordPixelFetch("first_seen")
	} else {
		metrics.RecordPixelFetch("repeat")
	}

	h.servePixel(c)
}

// servePixel writes the fixed image bytes. Caching is forbidden so that a
// cached response never swallows a later fetch of the same URL.
func (h *PixelHandler) servePixel(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "image/gif", pixelGIF)
}
