package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/internal/types"
)

const (
	// RecipeListKey holds the JSON-encoded recipe list
	RecipeListKey = "recipebox:recipes:list"
	// RecipeGenerationKey is incremented by every invalidation. A fill only lands while
	// it still holds the value read before the database query.
	RecipeGenerationKey = "recipebox:recipes:gen"
)

// RedisRecipeCache is a read-through cache for the recipe list backed by Redis
type RedisRecipeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRecipeCache(client *redis.Client, ttl time.Duration) *RedisRecipeCache {
	return &RedisRecipeCache{client: client, ttl: ttl}
}

// GetList returns the cached list. ok is false on a miss.
func (c *RedisRecipeCache) GetList(ctx context.Context) ([]types.Recipe, bool, error) {
	data, err := c.client.Get(ctx, RecipeListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read recipe list: %w", err)
	}

	var recipes []types.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, false, fmt.Errorf("decode cached recipe list: %w", err)
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, true, nil
}

// Generation returns the current invalidation counter, 0 before the first write
func (c *RedisRecipeCache) Generation(ctx context.Context) (int64, error) {
	return generation(ctx, c.client)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, RecipeGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read recipe list generation: %w", err)
	}
	return gen, nil
}

// SetList stores recipes if no invalidation happened since gen was read. The
// generation key is watched so an Invalidate racing the write aborts it.
func (c *RedisRecipeCache) SetList(ctx context.Context, gen int64, recipes []types.Recipe) (bool, error) {
	data, err := json.Marshal(recipes)
	if err != nil {
		return false, fmt.Errorf("encode recipe list: %w", err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, RecipeListKey, data, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, RecipeGenerationKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("write recipe list: %w", err)
	}
	return stored, nil
}

// Invalidate advances the generation and drops the cached list so the next read goes
// to the database
func (c *RedisRecipeCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, RecipeGenerationKey)
		pipe.Del(ctx, RecipeListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate recipe list: %w", err)
	}
	return nil
}
