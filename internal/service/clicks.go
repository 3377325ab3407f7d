package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"shorturl/internal/cache"
	"shorturl/internal/domain"
	"shorturl/internal/repository"
	"shorturl/pkg/logger"
)

// ClickRecorder increments click counters off the request path.
// A fixed set of workers drains a bounded queue; when the queue is full the
// increment gets its own goroutine instead of blocking the redirect.
// A click for a code the store no longer has evicts the code from the cache.
type ClickRecorder struct {
	repo    repository.URLRepository
	cache   cache.Cache
	timeout time.Duration
	logger  *logger.Logger

	queue chan string
	group errgroup.Group

	mu     sync.RWMutex
	closed bool
}

// NewClickRecorder starts workers goroutines reading from a queue of queueSize codes.
// redirects may be nil.
func NewClickRecorder(
	repo repository.URLRepository,
	redirects cache.Cache,
	workers, queueSize int,
	timeout time.Duration,
	logger *logger.Logger,
) *ClickRecorder {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	r := &ClickRecorder{
		repo:    repo,
		cache:   redirects,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan string, queueSize),
	}

	for i := 0; i < workers; i++ {
		r.group.Go(func() error {
			for code := range r.queue {
				r.increment(code)
			}
			return nil
		})
	}

	return r
}

// Record schedules one click for shortCode. After Close it runs synchronously.
func (r *ClickRecorder) Record(shortCode string) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		r.increment(shortCode)
		return
	}

	select {
	case r.queue <- shortCode:
	default:
		r.logger.Debugw("Click queue full, recording on overflow goroutine", "short_code", shortCode)
		r.group.Go(func() error {
			r.increment(shortCode)
			return nil
		})
	}
	r.mu.RUnlock()
}

// Close stops intake and waits until every queued click has been written
func (r *ClickRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	_ = r.group.Wait()
}

func (r *ClickRecorder) increment(shortCode string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if _, err := r.repo.IncrementClicks(ctx, shortCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// deleted between lookup and increment
			r.logger.Warnw("Click recorded for missing short code", "short_code", shortCode)
			r.evict(ctx, shortCode)
			return
		}
		r.logger.Errorw("Failed to increment click count", "short_code", shortCode, "error", err)
	}
}

func (r *ClickRecorder) evict(ctx context.Context, shortCode string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cache.RedirectKey(shortCode)); err != nil {
		r.logger.Warnw("Failed to evict cached URL", "short_code", shortCode, "error", err)
	}
}
