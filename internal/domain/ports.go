package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory (built-in
// samples), file-based, or API-backed.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*RecipeInput, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// ScheduleStore caches computed schedules keyed by recipe identity.
// Implementations can be in-memory or on disk.
type ScheduleStore interface {
	Save(ctx context.Context, key string, schedule *Schedule) error
	Load(ctx context.Context, key string) (*Schedule, error)
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) (int, error)
}

// StepStructurer turns free-text instructions into structured steps with
// dependencies. The LLM-backed implementation lives in package gpt; the
// scheduler consumes its output but never calls it.
type StepStructurer interface {
	Structure(ctx context.Context, recipe *RecipeInput) (*RecipeInput, error)
}
