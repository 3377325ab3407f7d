package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shorturl/internal/domain"
)

// MockURLRepository is a mock implementation of URLRepository
type MockURLRepository struct {
	mock.Mock
}

func (m *MockURLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*domain.URLMapping, error) {
	args := m.Called(ctx, originalURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

func (m *MockURLRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

func (m *MockURLRepository) Insert(ctx context.Context, mapping *domain.URLMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockURLRepository) IncrementClicks(ctx context.Context, shortCode string) (*domain.URLMapping, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

func (m *MockURLRepository) DeleteByShortCode(ctx context.Context, shortCode string) (int64, error) {
	args := m.Called(ctx, shortCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockURLRepository) ListAll(ctx context.Context) ([]domain.URLMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.URLMapping), args.Error(1)
}

func (m *MockURLRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockURLRepository) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
