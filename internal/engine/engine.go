// Package engine implements the step scheduler: it places recipe steps on a
// timeline so passive work overlaps everything else, packs concurrent steps
// into display rows, and derives track and total boundaries.
//
// The engine is pure and synchronous. Every call to Schedule builds its own
// step set, memo, and cycle guard, so one Engine may serve concurrent callers.
package engine

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/hammamikhairi/ottoplan/internal/classify"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithPassiveStartCap sets the latest minute at which the first passive step
// starts in heuristic mode. It starts at min(cap, prepTotal/2).
func WithPassiveStartCap(minutes float64) Option {
	return func(e *Engine) {
		e.passiveStartCap = minutes
	}
}

// WithPassiveStagger sets the offset between consecutive passive steps in
// heuristic mode.
func WithPassiveStagger(minutes float64) Option {
	return func(e *Engine) {
		e.passiveStagger = minutes
	}
}

// WithCleanupWindow configures when cleanup fits inside a passive step: the
// passive step must last longer than minWindow, and washing starts offset
// minutes after it opens.
func WithCleanupWindow(minWindow, offset float64) Option {
	return func(e *Engine) {
		e.cleanupMinWindow = minWindow
		e.cleanupOffset = offset
	}
}

// WithCleanupPerTool sets the minutes allotted to each tool when cleanup is
// appended after cooking.
func WithCleanupPerTool(minutes float64) Option {
	return func(e *Engine) {
		e.cleanupPerTool = minutes
	}
}

// Engine schedules recipes. It holds only configuration.
type Engine struct {
	classifier *classify.Classifier
	log        *logger.Logger

	passiveStartCap  float64
	passiveStagger   float64
	cleanupMinWindow float64
	cleanupOffset    float64
	cleanupPerTool   float64
}

// New creates a scheduling engine with the given classifier and options.
func New(classifier *classify.Classifier, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		classifier:       classifier,
		log:              log,
		passiveStartCap:  2,
		passiveStagger:   1,
		cleanupMinWindow: 5,
		cleanupOffset:    2,
		cleanupPerTool:   2,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.clampOptions()
	return e
}

// clampOptions raises negative tuning values to zero. A negative offset or
// stagger would start steps before zero.
func (e *Engine) clampOptions() {
	for _, c := range []struct {
		name string
		v    *float64
	}{
		{"passive start cap", &e.passiveStartCap},
		{"passive stagger", &e.passiveStagger},
		{"cleanup window", &e.cleanupMinWindow},
		{"cleanup offset", &e.cleanupOffset},
		{"cleanup per tool", &e.cleanupPerTool},
	} {
		if *c.v < 0 {
			e.log.Warn("engine: %s %.1f is negative, using 0", c.name, *c.v)
			*c.v = 0
		}
	}
}

// Classifier returns the classifier the engine builds steps with.
func (e *Engine) Classifier() *classify.Classifier { return e.classifier }

// Schedule classifies a recipe and places every step. The recipe is not
// modified. An empty recipe yields an empty schedule; the only error is an
// unknown mode or a nil recipe.
func (e *Engine) Schedule(recipe *domain.RecipeInput, mode domain.Mode) (*domain.Schedule, error) {
	if recipe == nil {
		return nil, fmt.Errorf("engine: %w: nil recipe", domain.ErrInvalidRecipe)
	}
	if mode == domain.ModeAuto {
		mode = domain.ModeHeuristic
		if recipe.HasDependencies() {
			mode = domain.ModeGraph
		}
	}

	steps := e.classifier.Steps(recipe)
	var cleanup []domain.Step
	if len(steps) > 0 {
		cleanup = e.classifier.CleanupSteps(e.classifier.Tools(recipe))
	}

	sched, err := e.place(steps, cleanup, mode)
	if err != nil {
		return nil, err
	}
	sched.RecipeID = recipe.ID
	sched.RecipeName = recipe.Name
	sched.TotalTimeHint = recipe.TotalTimeHint

	e.log.Info("scheduled %q (%s): %d steps, %.1f min instead of %.1f",
		recipe.Name, sched.Mode, len(steps)+len(cleanup), sched.TotalTime, sched.SequentialTime)
	return sched, nil
}

// ScheduleSteps places already-built steps. The slice is copied; tools
// produce cleanup steps exactly as in Schedule. Unknown categories become
// prep and repeated IDs are suffixed, as for recipe input.
func (e *Engine) ScheduleSteps(steps []domain.Step, tools []string, mode domain.Mode) (*domain.Schedule, error) {
	own := make([]domain.Step, len(steps))
	for i, s := range steps {
		s.Dependencies = append([]string(nil), s.Dependencies...)
		s.Start, s.End, s.Row = 0, 0, 0
		if s.Duration < 0 {
			s.Duration = 0
		}
		if !s.Category.Valid() {
			e.log.Debug("step %s: unknown category %d, using prep", s.ID, int(s.Category))
			s.Category = domain.CategoryPrep
		}
		own[i] = s
	}
	classify.UniqueIDs(own)
	if mode == domain.ModeAuto {
		mode = domain.ModeHeuristic
		for _, s := range own {
			if len(s.Dependencies) > 0 {
				mode = domain.ModeGraph
				break
			}
		}
	}
	var cleanup []domain.Step
	if len(own) > 0 {
		cleanup = e.classifier.CleanupSteps(tools)
	}
	return e.place(own, cleanup, mode)
}

// place runs the selected strategy, fits cleanup, then packs and aggregates.
func (e *Engine) place(steps, cleanup []domain.Step, mode domain.Mode) (*domain.Schedule, error) {
	var cycles []domain.CycleEdge
	switch mode {
	case domain.ModeGraph:
		cycles = e.earliestStarts(steps)
	case domain.ModeHeuristic:
		e.placeHeuristic(steps)
	default:
		return nil, fmt.Errorf("engine: %w: %d", domain.ErrUnknownMode, int(mode))
	}

	steps = e.placeCleanup(steps, cleanup)

	sched := assemble(steps)
	sched.Mode = mode
	sched.Cycles = cycles
	return sched, nil
}

// Fingerprint identifies the engine's configuration, classifier rules
// included. Caches mix it into their keys so a tuning change never serves a
// stale schedule.
func (e *Engine) Fingerprint() string {
	cfg := struct {
		Rules  *classify.Rules
		Consts [5]float64
	}{
		Rules: e.classifier.Rules(),
		Consts: [5]float64{
			e.passiveStartCap, e.passiveStagger,
			e.cleanupMinWindow, e.cleanupOffset, e.cleanupPerTool,
		},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "unhashable"
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
