package repository

import (
	"context"

	"shorturl/internal/domain"
)

// URLRepository is the only component that talks to the persistent store.
// Absent records are reported as domain.ErrNotFound; every store failure,
// including a timed-out call, is a *domain.StorageError.
type URLRepository interface {
	// FindByOriginalURL returns the mapping already created for a normalized URL
	FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URLMapping, error)

	// FindByShortCode retrieves a mapping by its short code
	FindByShortCode(ctx context.Context, shortCode string) (*domain.URLMapping, error)

	// Insert stores a new mapping; domain.ErrDuplicateKey if the short code is taken
	Insert(ctx context.Context, mapping *domain.URLMapping) error

	// IncrementClicks atomically adds one to the click counter and returns the updated mapping
	IncrementClicks(ctx context.Context, shortCode string) (*domain.URLMapping, error)

	// DeleteByShortCode removes a mapping and reports how many records went away (0 or 1)
	DeleteByShortCode(ctx context.Context, shortCode string) (int64, error)

	// ListAll returns every mapping in no particular order
	ListAll(ctx context.Context) ([]domain.URLMapping, error)

	// Ping probes store connectivity
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool
	Close(ctx context.Context) error
}
