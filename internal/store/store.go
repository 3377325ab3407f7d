// Package store opens the URL repository named by the configured store URI.
package store

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-retry"

	"shorturl/internal/config"
	"shorturl/internal/repository"
	"shorturl/internal/repository/memory"
	mongoRepo "shorturl/internal/repository/mongo"
	"shorturl/internal/repository/relational"
	"shorturl/pkg/logger"
)

// Backend names reported by Open and the health endpoint
const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Open connects to the store in cfg.StoreURI, retrying with a constant backoff
// up to cfg.StoreConnectRetries attempts in total.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.URLRepository, string, error) {
	scheme, err := cfg.StoreScheme()
	if err != nil {
		return nil, "", err
	}

	backend, err := backendFor(scheme)
	if err != nil {
		return nil, "", err
	}

	attempts := cfg.StoreConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(cfg.StoreConnectBackoff))

	var repo repository.URLRepository
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		r, err := connect(ctx, backend, cfg, log)
		if err != nil {
			log.Warnw("Store connection failed",
				"backend", backend,
				"attempt", attempt,
				"max_attempts", attempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		repo = r
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s store after %d attempts: %w", backend, attempt, err)
	}

	log.Infow("Store connected", "backend", backend, "attempts", attempt)
	return repo, backend, nil
}

func backendFor(scheme string) (string, error) {
	switch scheme {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "sqlite":
		return BackendSQLite, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported store scheme %q", scheme)
	}
}

func connect(ctx context.Context, backend string, cfg *config.Config, log *logger.Logger) (repository.URLRepository, error) {
	switch backend {
	case BackendMongo:
		return mongoRepo.Open(ctx, cfg.StoreURI, cfg.StoreTimeout)
	case BackendPostgres, BackendSQLite:
		db, err := relational.Open(ctx, cfg.StoreURI, cfg.StoreTimeout, log)
		if err != nil {
			return nil, err
		}
		return relational.NewURLRepository(db, cfg.StoreTimeout), nil
	default:
		return memory.NewURLRepository(), nil
	}
}
