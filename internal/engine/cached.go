package engine

import (
	"context"
	"errors"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// Cached serves schedules from a store keyed by recipe content, mode, and
// engine configuration, and computes them on a miss. Store failures are
// logged and never fail the call.
type Cached struct {
	engine *Engine
	store  domain.ScheduleStore
	log    *logger.Logger
	salt   string
}

// NewCached wraps an engine with a schedule store.
func NewCached(engine *Engine, store domain.ScheduleStore, log *logger.Logger) *Cached {
	return &Cached{
		engine: engine,
		store:  store,
		log:    log,
		salt:   engine.Fingerprint(),
	}
}

// Schedule returns the cached schedule for the recipe or computes and
// stores it. The returned schedule is the caller's to modify.
func (c *Cached) Schedule(ctx context.Context, recipe *domain.RecipeInput, mode domain.Mode) (*domain.Schedule, error) {
	if recipe == nil {
		return c.engine.Schedule(recipe, mode)
	}
	key := storage.Key(recipe, mode, c.salt)

	sched, err := c.store.Load(ctx, key)
	switch {
	case err == nil:
		c.log.Debug("cache hit %s for %q", key, recipe.Name)
		return sched, nil
	case !errors.Is(err, domain.ErrNotFound):
		c.log.Warn("cache load %s: %v", key, err)
	}

	sched, err = c.engine.Schedule(recipe, mode)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, key, sched); err != nil {
		c.log.Warn("cache save %s: %v", key, err)
	}
	return sched, nil
}

// Invalidate drops the cached schedule for a recipe, if any.
func (c *Cached) Invalidate(ctx context.Context, recipe *domain.RecipeInput, mode domain.Mode) error {
	err := c.store.Delete(ctx, storage.Key(recipe, mode, c.salt))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
