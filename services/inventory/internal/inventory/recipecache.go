package inventory

import (
	"context"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// RecipeCache stores recipes by NameKey. Get returns (nil, nil) on a miss.
type RecipeCache interface {
	Get(ctx context.Context, key string) (*Recipe, error)
	Set(ctx context.Context, key string, recipe *Recipe) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedRecipeRepo serves FindByProductName from a RecipeCache and falls back
// to the wrapped repository. Cache failures are logged and bypassed.
type CachedRecipeRepo struct {
	RecipeRepo
	cache  RecipeCache
	group  singleflight.Group
	logger aqm.Logger
}

func NewCachedRecipeRepo(repo RecipeRepo, cache RecipeCache, logger aqm.Logger) *CachedRecipeRepo {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &CachedRecipeRepo{
		RecipeRepo: repo,
		cache:      cache,
		logger:     logger.With("component", "recipe-cache"),
	}
}

func (c *CachedRecipeRepo) FindByProductName(ctx context.Context, name string) (*Recipe, error) {
	key := NameKey(name)

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Debug("recipe cache read failed", "key", key, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		recipe, err := c.RecipeRepo.FindByProductName(ctx, name)
		if err != nil || recipe == nil {
			return recipe, err
		}
		if err := c.cache.Set(ctx, key, recipe); err != nil {
			c.logger.Debug("recipe cache write failed", "key", key, "error", err)
		}
		return recipe, nil
	})
	if err != nil {
		return nil, err
	}

	recipe, _ := v.(*Recipe)
	return recipe, nil
}

func (c *CachedRecipeRepo) Save(ctx context.Context, recipe *Recipe) error {
	previous, err := c.RecipeRepo.Get(ctx, recipe.ID)
	if err != nil {
		return err
	}

	if err := c.RecipeRepo.Save(ctx, recipe); err != nil {
		return err
	}

	keys := []string{NameKey(recipe.ProductName)}
	if previous != nil {
		keys = append(keys, NameKey(previous.ProductName))
	}
	c.invalidate(ctx, keys...)
	return nil
}

func (c *CachedRecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	previous, err := c.RecipeRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := c.RecipeRepo.Delete(ctx, id); err != nil {
		return err
	}

	if previous != nil {
		c.invalidate(ctx, NameKey(previous.ProductName))
	}
	return nil
}

func (c *CachedRecipeRepo) invalidate(ctx context.Context, keys ...string) {
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Error("cannot invalidate cached recipe", "keys", keys, "error", err)
	}
}
