package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appetiteclub/pantry/services/inventory/internal/inventory"
)

const (
	DefaultTTL = 5 * time.Minute
	keyPrefix  = "inventory:recipe:"
)

// RecipeCache keeps recipes as JSON under their product key.
type RecipeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRecipeCache(client redis.Cmdable, ttl time.Duration) *RecipeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RecipeCache{
		client: client,
		ttl:    ttl,
	}
}

// NewClient connects to addr and verifies the connection.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cannot ping redis at %s: %w", addr, err)
	}

	return client, nil
}

func (c *RecipeCache) Get(ctx context.Context, key string) (*inventory.Recipe, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read cached recipe: %w", err)
	}

	var recipe inventory.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("cannot decode cached recipe: %w", err)
	}
	recipe.Normalize()

	return &recipe, nil
}

func (c *RecipeCache) Set(ctx context.Context, key string, recipe *inventory.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("cannot encode recipe: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cannot cache recipe: %w", err)
	}

	return nil
}

func (c *RecipeCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}

	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cannot evict cached recipe: %w", err)
	}

	return nil
}
