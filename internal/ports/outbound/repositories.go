// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent keys
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Set operations, used to track keys that are invalidated together
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)

	Ping(ctx context.Context) error
}

// IngredientRepository stores ingredients added after the graph was seeded
type IngredientRepository interface {
	Save(ctx context.Context, ext ingredient.Extension) error
	List(ctx context.Context) ([]ingredient.Extension, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// RecipeGenerator produces recipe text from a prompt
type RecipeGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
