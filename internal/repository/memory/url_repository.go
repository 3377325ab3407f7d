// Package memory keeps URL mappings in process memory.
// Nothing survives a restart; it backs memory:// store URIs, local runs and tests.
package memory

import (
	"context"
	"sync"

	"shorturl/internal/domain"
	"shorturl/internal/repository"
)

type urlRepository struct {
	mu     sync.RWMutex
	byCode map[string]*domain.URLMapping
	nextID uint
}

// NewURLRepository creates an empty in-memory repository
func NewURLRepository() repository.URLRepository {
	return &urlRepository{
		byCode: make(map[string]*domain.URLMapping),
	}
}

// FindByOriginalURL returns the earliest inserted mapping for originalURL
func (r *urlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("find_by_original_url", originalURL, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *domain.URLMapping
	for _, m := range r.byCode {
		if m.OriginalURL == originalURL && (found == nil || m.ID < found.ID) {
			found = m
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}

	// copies keep callers from bypassing IncrementClicks
	mapping := *found
	return &mapping, nil
}

// FindByShortCode retrieves a mapping by its short code
func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("find_by_short_code", shortCode, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.byCode[shortCode]
	if !exists {
		return nil, domain.ErrNotFound
	}

	mapping := *m
	return &mapping, nil
}

// Insert stores a copy of mapping
func (r *urlRepository) Insert(ctx context.Context, mapping *domain.URLMapping) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("insert", mapping.ShortCode, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[mapping.ShortCode]; exists {
		return domain.ErrDuplicateKey
	}

	r.nextID++
	mapping.ID = r.nextID
	stored := *mapping
	r.byCode[mapping.ShortCode] = &stored
	return nil
}

// IncrementClicks adds one under the write lock
func (r *urlRepository) IncrementClicks(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("increment_clicks", shortCode, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.byCode[shortCode]
	if !exists {
		return nil, domain.ErrNotFound
	}

	m.Clicks++
	mapping := *m
	return &mapping, nil
}

// DeleteByShortCode removes a mapping if present
func (r *urlRepository) DeleteByShortCode(ctx context.Context, shortCode string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.NewStorageError("delete_by_short_code", shortCode, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[shortCode]; !exists {
		return 0, nil
	}
	delete(r.byCode, shortCode)
	return 1, nil
}

// ListAll returns copies of every mapping
func (r *urlRepository) ListAll(ctx context.Context) ([]domain.URLMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("list_all", "", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	mappings := make([]domain.URLMapping, 0, len(r.byCode))
	for _, m := range r.byCode {
		mappings = append(mappings, *m)
	}
	return mappings, nil
}

// Ping always succeeds unless the context is already done
func (r *urlRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("ping", "", err)
	}
	return nil
}

func (r *urlRepository) Close(_ context.Context) error {
	return nil
}
