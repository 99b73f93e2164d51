// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockIngredientRepository provides a mock implementation of IngredientRepository.
// Saved extensions are kept and returned by List unless an expectation on
// List is registered.
type MockIngredientRepository struct {
	mock.Mock
	saved []ingredient.Extension
	mu    sync.RWMutex
}

var _ outbound.IngredientRepository = (*MockIngredientRepository)(nil)

// NewMockIngredientRepository creates a new mock ingredient repository
func NewMockIngredientRepository() *MockIngredientRepository {
	return &MockIngredientRepository{}
}

// Save records an extension
func (m *MockIngredientRepository) Save(ctx context.Context, ext ingredient.Extension) error {
	args := m.Called(ctx, ext)

	if args.Error(0) == nil {
		m.mu.Lock()
		m.saved = append(m.saved, ext)
		m.mu.Unlock()
	}

	return args.Error(0)
}

// List returns saved extensions
func (m *MockIngredientRepository) List(ctx context.Context) ([]ingredient.Extension, error) {
	args := m.Called(ctx)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if exts, ok := args.Get(0).([]ingredient.Extension); ok {
		return exts, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ingredient.Extension(nil), m.saved...), nil
}

// Ping checks the repository
func (m *MockIngredientRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Count returns the stored extension count
func (m *MockIngredientRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Saved returns a copy of the recorded extensions
func (m *MockIngredientRepository) Saved() []ingredient.Extension {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ingredient.Extension(nil), m.saved...)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

var _ outbound.CacheRepository = (*MockCacheRepository)(nil)

// Get retrieves a value
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Set stores a value
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes keys
func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// Exists checks a key
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// SAdd adds set members
func (m *MockCacheRepository) SAdd(ctx context.Context, key string, members ...string) error {
	args := m.Called(ctx, key, members)
	return args.Error(0)
}

// SMembers lists set members
func (m *MockCacheRepository) SMembers(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Ping checks the cache
func (m *MockCacheRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRecipeGenerator provides a mock implementation of RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

var _ outbound.RecipeGenerator = (*MockRecipeGenerator)(nil)

// Generate returns the configured recipe text
func (m *MockRecipeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// Name returns "mock"
func (m *MockRecipeGenerator) Name() string {
	return "mock"
}
