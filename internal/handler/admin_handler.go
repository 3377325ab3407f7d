package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shorturl/internal/domain"
	"shorturl/internal/service"
	"shorturl/pkg/logger"
)

// QR code size bounds in pixels
const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// AdminHandler serves the JSON management API under /api
type AdminHandler struct {
	service service.AdminService
	baseURL string
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin API handler
func NewAdminHandler(service service.AdminService, baseURL string, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
	}
}

// ListURLs handles GET /api/urls
func (h *AdminHandler) ListURLs(c *gin.Context) {
	mappings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Errorw("Failed to list URLs", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, domain.APIResponse{
			Success: false,
			Error:   "Internal server error",
		})
		return
	}

	views := make([]domain.URLView, 0, len(mappings))
	for _, m := range mappings {
		views = append(views, m.View())
	}

	c.JSON(http.StatusOK, views)
}

// DeleteURL handles DELETE /api/urls/:shortCode
func (h *AdminHandler) DeleteURL(c *gin.Context) {
	shortCode := c.Param("shortCode")

	deleted, err := h.service.DeleteByCode(c.Request.Context(), shortCode)
	if err != nil {
		h.logger.Errorw("Failed to delete URL",
			"request_id", c.GetString(requestIDKey),
			"short_code", shortCode,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, domain.APIResponse{
			Success: false,
			Error:   "Internal server error",
		})
		return
	}

	if !deleted {
		h.logger.Warnw("URL not found for deletion", "short_code", shortCode)
		c.JSON(http.StatusNotFound, domain.APIResponse{
			Success: false,
			Error:   domain.ErrNotFound.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, domain.APIResponse{Success: true})
}

// QRCode handles GET /api/urls/:shortCode/qr and returns a PNG of the short URL
func (h *AdminHandler) QRCode(c *gin.Context) {
	shortCode := c.Param("shortCode")

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{
				Error:   "invalid_size",
				Message: "size must be between 64 and 1024",
				Code:    http.StatusBadRequest,
			})
			return
		}
		size = n
	}

	if _, err := h.service.Lookup(c.Request.Context(), shortCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.ErrorResponse{
				Error:   "not_found",
				Message: domain.ErrNotFound.Error(),
				Code:    http.StatusNotFound,
			})
			return
		}
		h.logger.Errorw("Failed to look up URL for QR code", "short_code", shortCode, "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	png, err := qrcode.Encode(shortURL(c, h.baseURL, shortCode), qrcode.Medium, size)
	if err != nil {
		h.logger.Errorw("Failed to encode QR code", "short_code", shortCode, "error", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
