package service

import (
	"context"
	"errors"
	"time"

	"shorturl/internal/cache"
	"shorturl/internal/config"
	"shorturl/internal/domain"
	"shorturl/internal/repository"
	"shorturl/internal/shortener"
	"shorturl/pkg/logger"
)

// maxShortenAttempts bounds code generation when inserts keep colliding
const maxShortenAttempts = 5

// ShorteningService turns long URLs into short codes
type ShorteningService interface {
	// Shorten returns the existing mapping for the URL or creates a new one
	Shorten(ctx context.Context, rawURL string) (*domain.ShortenResult, error)
}

// ResolutionService maps short codes back to their targets
type ResolutionService interface {
	// Resolve returns the original URL and records a click
	Resolve(ctx context.Context, shortCode string) (string, error)
}

// AdminService backs the JSON management API and health probe
type AdminService interface {
	ListAll(ctx context.Context) ([]domain.URLMapping, error)
	DeleteByCode(ctx context.Context, shortCode string) (bool, error)
	Lookup(ctx context.Context, shortCode string) (*domain.URLMapping, error)
	Ping(ctx context.Context) error
}

// URLService is everything the HTTP layer needs
type URLService interface {
	ShorteningService
	ResolutionService
	AdminService
}

// urlService implements URLService on top of a repository, an optional cache
// and a click recorder
type urlService struct {
	repo      repository.URLRepository
	cache     cache.Cache
	clicks    *ClickRecorder
	generator *shortener.CodeGenerator
	cacheTTL  time.Duration
	logger    *logger.Logger
}

// NewURLService wires the services together. cache may be nil.
func NewURLService(
	repo repository.URLRepository,
	cache cache.Cache,
	clicks *ClickRecorder,
	cfg *config.Config,
	logger *logger.Logger,
) URLService {
	generator := shortener.NewCodeGenerator(cfg.ShortCodeLength)
	logger.Debugw("Short code generator configured",
		"length", generator.Length(),
		"collision_probability_1m", generator.CollisionProbability(1_000_000),
	)

	return &urlService{
		repo:      repo,
		cache:     cache,
		clicks:    clicks,
		generator: generator,
		cacheTTL:  cfg.CacheTTL,
		logger:    logger,
	}
}

// cacheTarget stores code -> URL, then re-reads the store and evicts if the
// code has gone. A delete racing the fill either lands before the re-read or
// runs its own eviction after the Set. Cache failures only cost a later store read.
func (s *urlService) cacheTarget(ctx context.Context, shortCode, originalURL string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cache.RedirectKey(shortCode), originalURL, s.cacheTTL); err != nil {
		s.logger.Warnw("Failed to cache URL", "short_code", shortCode, "error", err)
		return
	}

	if _, err := s.repo.FindByShortCode(ctx, shortCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugw("Short code deleted while caching", "short_code", shortCode)
		} else {
			s.logger.Warnw("Failed to verify cached URL", "short_code", shortCode, "error", err)
		}
		s.evict(ctx, shortCode)
	}
}

func (s *urlService) evict(ctx context.Context, shortCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.RedirectKey(shortCode)); err != nil {
		s.logger.Warnw("Failed to evict cached URL", "short_code", shortCode, "error", err)
	}
}
