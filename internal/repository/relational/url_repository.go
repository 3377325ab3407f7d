package relational

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"shorturl/internal/domain"
	"shorturl/internal/repository"
)

// urlRepository implements the URLRepository interface on top of GORM
type urlRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewURLRepository creates a GORM-backed URL repository.
// The schema must already exist; see Migrate.
func NewURLRepository(db *gorm.DB, timeout time.Duration) repository.URLRepository {
	return &urlRepository{db: db, timeout: timeout}
}

// Migrate creates or updates the urls table and its indexes
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.URLMapping{})
}

// FindByOriginalURL checks if an original URL already has a short code
func (r *urlRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	result := r.db.WithContext(ctx).
		Where("original_url = ?", originalURL).
		Order("id").
		First(&mapping)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find_by_original_url", originalURL, result.Error)
	}

	return &mapping, nil
}

// FindByShortCode retrieves a mapping by its short code
func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	result := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		First(&mapping)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("find_by_short_code", shortCode, result.Error)
	}

	return &mapping, nil
}

// Insert adds a new row; the unique index on short_code rejects collisions
func (r *urlRepository) Insert(ctx context.Context, mapping *domain.URLMapping) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Create(mapping)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.ErrDuplicateKey
		}
		return domain.NewStorageError("insert", mapping.ShortCode, result.Error)
	}
	return nil
}

// IncrementClicks bumps the counter with a single UPDATE (no read-then-write race)
// and reads the row back inside the same transaction
func (r *urlRepository) IncrementClicks(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.URLMapping{}).
			Where("short_code = ?", shortCode).
			UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return tx.Where("short_code = ?", shortCode).First(&mapping).Error
	})

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("increment_clicks", shortCode, err)
	}

	return &mapping, nil
}

// DeleteByShortCode hard-deletes a mapping
func (r *urlRepository) DeleteByShortCode(ctx context.Context, shortCode string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		Delete(&domain.URLMapping{})

	if result.Error != nil {
		return 0, domain.NewStorageError("delete_by_short_code", shortCode, result.Error)
	}

	return result.RowsAffected, nil
}

// ListAll loads the whole table
func (r *urlRepository) ListAll(ctx context.Context) ([]domain.URLMapping, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	mappings := make([]domain.URLMapping, 0)
	if err := r.db.WithContext(ctx).Find(&mappings).Error; err != nil {
		return nil, domain.NewStorageError("list_all", "", err)
	}

	return mappings, nil
}

// Ping checks the underlying sql.DB
func (r *urlRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err != nil {
		return domain.NewStorageError("ping", "", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return domain.NewStorageError("ping", "", err)
	}
	return nil
}

// Close closes the connection pool
func (r *urlRepository) Close(_ context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *urlRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// isDuplicateKey recognises unique violations whether or not the dialect translated them
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
