package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"shorturl/internal/cache"
	"shorturl/internal/config"
	"shorturl/internal/service"
	"shorturl/pkg/logger"
)

// NewRouter configures the Gin router with middleware and routes. redirects may be nil.
func NewRouter(
	svc service.URLService,
	redirects cache.Cache,
	cfg *config.Config,
	backend string,
	log *logger.Logger,
) (*gin.Engine, error) {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(RecoveryMiddleware(log))
	router.Use(SecurityHeadersMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))

	urlHandler := NewURLHandler(svc, svc, cfg.BaseURL, log)
	adminHandler := NewAdminHandler(svc, cfg.BaseURL, log)
	healthHandler := NewHealthHandler(svc, redirects, backend, log)

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		api.GET("/urls", adminHandler.ListURLs)
		api.DELETE("/urls/:shortCode", adminHandler.DeleteURL)
		api.GET("/urls/:shortCode/qr", adminHandler.QRCode)
	}

	router.GET("/", urlHandler.Index)
	router.POST("/shorten", urlHandler.Shorten)
	router.GET("/:shortCode", urlHandler.Redirect)

	router.NoRoute(NotFound)

	return router, nil
}
