package service

import (
	"context"
	"errors"
	"time"

	"shorturl/internal/domain"
	"shorturl/pkg/validator"
)

// Shorten is idempotent per normalized URL except under concurrent first-time
// requests, where both callers may insert and the older row wins later lookups.
func (s *urlService) Shorten(ctx context.Context, rawURL string) (*domain.ShortenResult, error) {
	if validator.IsBlank(rawURL) {
		return nil, domain.ErrInvalidInput
	}
	originalURL := validator.NormalizeURL(rawURL)

	existing, err := s.repo.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		s.logger.Debugw("URL already shortened", "short_code", existing.ShortCode)
		return resultFrom(existing, false), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Errorw("Failed to look up URL", "original_url", originalURL, "error", err)
		return nil, err
	}

	for attempt := 1; attempt <= maxShortenAttempts; attempt++ {
		mapping := domain.NewURLMapping(originalURL, s.generator.Generate(), time.Now())

		err := s.repo.Insert(ctx, mapping)
		if errors.Is(err, domain.ErrDuplicateKey) {
			s.logger.Warnw("Short code collision detected, retrying",
				"short_code", mapping.ShortCode,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			s.logger.Errorw("Failed to insert URL", "short_code", mapping.ShortCode, "error", err)
			return nil, err
		}

		s.cacheTarget(ctx, mapping.ShortCode, originalURL)
		s.logger.Infow("URL shortened",
			"short_code", mapping.ShortCode,
			"original_url", originalURL,
		)
		return resultFrom(mapping, true), nil
	}

	s.logger.Errorw("Short code generation exhausted", "attempts", maxShortenAttempts)
	return nil, domain.ErrCodeGenerationExhausted
}

func resultFrom(m *domain.URLMapping, created bool) *domain.ShortenResult {
	return &domain.ShortenResult{
		OriginalURL: m.OriginalURL,
		ShortCode:   m.ShortCode,
		CreatedAt:   m.CreatedAt,
		Clicks:      m.Clicks,
		Created:     created,
	}
}
