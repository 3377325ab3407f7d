package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorturl/internal/cache"
	"shorturl/internal/domain"
	"shorturl/internal/repository/memory"
	"shorturl/pkg/logger"
)

func TestClickRecorder_CountsEveryClick(t *testing.T) {
	repo := memory.NewURLRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, domain.NewURLMapping("https://example.com", "busy0001", time.Now())))

	// tiny queue so most clicks take the overflow path
	clicks := NewClickRecorder(repo, nil, 2, 4, time.Second, logger.NewNop())

	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clicks.Record("busy0001")
		}()
	}
	wg.Wait()
	clicks.Close()

	m, err := repo.FindByShortCode(ctx, "busy0001")
	require.NoError(t, err)
	assert.Equal(t, int64(n), m.Clicks)
}

func TestClickRecorder_RecordAfterCloseIsSynchronous(t *testing.T) {
	repo := memory.NewURLRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, domain.NewURLMapping("https://example.com", "late0001", time.Now())))

	clicks := NewClickRecorder(repo, nil, 1, 1, time.Second, logger.NewNop())
	clicks.Close()
	clicks.Close()

	clicks.Record("late0001")

	m, err := repo.FindByShortCode(ctx, "late0001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Clicks)
}

func TestClickRecorder_MissingCodeIsLoggedOnly(t *testing.T) {
	repo := memory.NewURLRepository()
	clicks := NewClickRecorder(repo, nil, 1, 1, time.Second, logger.NewNop())

	assert.NotPanics(t, func() {
		clicks.Record("gone0001")
		clicks.Close()
	})
}

func TestClickRecorder_MissingCodeEvictsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redirects, err := cache.NewRedisCache(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer redirects.Close()

	ctx := context.Background()
	require.NoError(t, redirects.Set(ctx, cache.RedirectKey("gone0002"), "https://stale.example", time.Hour))

	clicks := NewClickRecorder(memory.NewURLRepository(), redirects, 1, 1, time.Second, logger.NewNop())
	clicks.Record("gone0002")
	clicks.Close()

	cached, err := redirects.Get(ctx, cache.RedirectKey("gone0002"))
	require.NoError(t, err)
	assert.Empty(t, cached)
}
