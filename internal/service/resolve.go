package service

import (
	"context"
	"errors"

	"shorturl/internal/cache"
	"shorturl/internal/domain"
	"shorturl/pkg/validator"
)

// Resolve uses cache-aside: Redis first, then the store, filling the cache on the way out.
// Clicks are recorded asynchronously and never fail the redirect.
func (s *urlService) Resolve(ctx context.Context, shortCode string) (string, error) {
	// codes with characters we never generate cannot exist
	if !validator.ValidateShortCode(shortCode) {
		return "", domain.ErrNotFound
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cache.RedirectKey(shortCode))
		if err != nil {
			s.logger.Warnw("Cache read failed, falling back to store", "short_code", shortCode, "error", err)
		} else if cached != "" {
			s.logger.Debugw("Cache hit", "short_code", shortCode)
			s.clicks.Record(shortCode)
			return cached, nil
		}
	}

	mapping, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warnw("Short code not found", "short_code", shortCode)
			return "", domain.ErrNotFound
		}
		s.logger.Errorw("Failed to resolve short code", "short_code", shortCode, "error", err)
		return "", err
	}

	s.cacheTarget(ctx, shortCode, mapping.OriginalURL)
	s.clicks.Record(shortCode)

	s.logger.Infow("URL accessed", "short_code", shortCode)
	return mapping.OriginalURL, nil
}
