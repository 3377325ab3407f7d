package service

import (
	"context"

	"shorturl/internal/domain"
	"shorturl/pkg/validator"
)

// ListAll returns every stored mapping in store order
func (s *urlService) ListAll(ctx context.Context) ([]domain.URLMapping, error) {
	mappings, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Errorw("Failed to list URLs", "error", err)
		return nil, err
	}
	return mappings, nil
}

// DeleteByCode reports whether a mapping was removed and evicts it from the cache
func (s *urlService) DeleteByCode(ctx context.Context, shortCode string) (bool, error) {
	deleted, err := s.repo.DeleteByShortCode(ctx, shortCode)
	if err != nil {
		s.logger.Errorw("Failed to delete URL", "short_code", shortCode, "error", err)
		return false, err
	}

	s.evict(ctx, shortCode)

	if deleted == 0 {
		return false, nil
	}

	s.logger.Infow("URL deleted", "short_code", shortCode)
	return true, nil
}

// Lookup returns the stored mapping without counting a click
func (s *urlService) Lookup(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	if !validator.ValidateShortCode(shortCode) {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByShortCode(ctx, shortCode)
}

func (s *urlService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
