package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shorturl/internal/domain"
	"shorturl/internal/service"
	"shorturl/pkg/logger"
)

// URLHandler serves the HTML form and the redirects
type URLHandler struct {
	shortener service.ShorteningService
	resolver  service.ResolutionService
	baseURL   string
	logger    *logger.Logger
}

// NewURLHandler creates a new URL handler with dependencies
func NewURLHandler(
	shortener service.ShorteningService,
	resolver service.ResolutionService,
	baseURL string,
	logger *logger.Logger,
) *URLHandler {
	return &URLHandler{
		shortener: shortener,
		resolver:  resolver,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// Index handles GET /
func (h *URLHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, templateIndex, gin.H{})
}

// Shorten handles POST /shorten with the form field original_url
func (h *URLHandler) Shorten(c *gin.Context) {
	result, err := h.shortener.Shorten(c.Request.Context(), c.PostForm("original_url"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.HTML(http.StatusOK, templateIndex, gin.H{"error": domain.ErrInvalidInput.Error()})
			return
		}
		renderError(c, h.logger, err)
		return
	}

	c.HTML(http.StatusOK, templateIndex, gin.H{
		"original_url": result.OriginalURL,
		"short_url":    shortURL(c, h.baseURL, result.ShortCode),
		"short_code":   result.ShortCode,
	})
}

// Redirect handles GET /:shortCode
func (h *URLHandler) Redirect(c *gin.Context) {
	originalURL, err := h.resolver.Resolve(c.Request.Context(), c.Param("shortCode"))
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	// 302 so repeat visits come back through us and get counted
	c.Redirect(http.StatusFound, originalURL)
}

// NotFound renders the 404 page for every unmatched route
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, templateNotFound, gin.H{})
}

// renderError maps service errors onto the HTML error pages
func renderError(c *gin.Context, log *logger.Logger, err error) {
	appErr := domain.AsAppError(err)

	switch appErr.StatusCode {
	case http.StatusNotFound:
		c.HTML(http.StatusNotFound, templateNotFound, gin.H{})
	case http.StatusBadRequest:
		c.HTML(http.StatusBadRequest, templateIndex, gin.H{"error": appErr.Message})
	default:
		log.Errorw("Internal server error",
			"request_id", c.GetString(requestIDKey),
			"path", c.Request.URL.Path,
			"error", appErr.Err,
		)
		c.HTML(appErr.StatusCode, templateError, gin.H{"error": appErr.Message})
	}
}

// shortURL prefers the configured base URL and otherwise rebuilds the origin
// the client used, honouring X-Forwarded-Proto from a TLS-terminating proxy
func shortURL(c *gin.Context, baseURL, shortCode string) string {
	if baseURL != "" {
		return baseURL + "/" + shortCode
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	return scheme + "://" + c.Request.Host + "/" + shortCode
}
