package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/classify"
	"github.com/hammamikhairi/ottoplan/internal/config"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/engine"
	"github.com/hammamikhairi/ottoplan/internal/gpt"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/recipe"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// app carries everything a subcommand needs. It is built once per run in
// the root command's PersistentPreRunE and closed by run.
type app struct {
	flags struct {
		envFile  string
		logLevel string
		logFile  string
		mode     string
		keywords string
		cacheDir string
	}

	cfg        *config.Config
	log        *logger.Logger
	engine     *engine.Engine
	cached     *engine.Cached
	source     domain.RecipeSource
	structurer domain.StepStructurer

	closers []io.Closer
}

func (a *app) setup(cmd *cobra.Command) error {
	var files []string
	if a.flags.envFile != "" {
		files = append(files, a.flags.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if err := a.applyFlags(cmd, cfg); err != nil {
		return err
	}
	a.cfg = cfg

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logOut = f
	}
	// Third-party libraries that use the standard logger write to the same
	// place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	a.log = logger.New(cfg.LogLevel, logOut)
	a.log.Debug("config: %s", cfg)

	var rules *classify.Rules
	if cfg.KeywordsPath != "" {
		rules, err = classify.LoadRules(cfg.KeywordsPath)
		if err != nil {
			return err
		}
		a.log.Info("keyword rules loaded from %s", cfg.KeywordsPath)
	}
	a.engine = engine.New(classify.New(rules, a.log.Named("classify")), a.log.Named("engine"))

	var store domain.ScheduleStore
	if cfg.CacheDir != "" {
		bs, err := storage.OpenBadger(cfg.CacheDir, a.log.Named("badger"))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, bs)
		store = bs
	} else {
		store = storage.NewMemoryStore(a.log.Named("cache"))
	}
	a.cached = engine.NewCached(a.engine, store, a.log.Named("cache"))

	a.source = recipe.NewMemorySource(a.log.Named("recipe"))

	if cfg.StructurerEnabled() {
		client := gpt.NewClient(cfg.OpenAIAPIKey, a.log.Named("gpt"),
			gpt.WithBaseURL(cfg.OpenAIAPIBase),
			gpt.WithModel(cfg.OpenAIModel),
		)
		a.structurer = gpt.NewStructurer(client, a.log.Named("gpt"))
	}
	return nil
}

// applyFlags lets explicitly set flags win over the environment.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		level, err := logger.ParseLevel(a.flags.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if flags.Changed("mode") {
		mode, err := domain.ParseMode(a.flags.mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.flags.logFile
	}
	if flags.Changed("keywords") {
		cfg.KeywordsPath = a.flags.keywords
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = a.flags.cacheDir
	}
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// load resolves arg as a recipe file when one exists at that path, and as a
// built-in recipe ID otherwise.
func (a *app) load(ctx context.Context, arg string) (*domain.RecipeInput, error) {
	if _, err := os.Stat(arg); err == nil {
		return recipe.LoadFile(arg)
	}
	r, err := a.source.Get(ctx, arg)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no recipe file or built-in recipe named %q (see 'ottoplan list')", arg)
	}
	return r, err
}

// prepare optionally runs the LLM structurer over a raw-text recipe. A
// missing API key downgrades to the keyword classifier with a warning.
func (a *app) prepare(ctx context.Context, r *domain.RecipeInput, structure bool) (*domain.RecipeInput, error) {
	if !structure || len(r.Steps) > 0 {
		return r, nil
	}
	if a.structurer == nil {
		a.log.Warn("--structure needs %s; using keyword classification", config.EnvAPIKey)
		return r, nil
	}
	return a.structurer.Structure(ctx, r)
}

// schedule loads, prepares, and schedules one recipe through the cache.
func (a *app) schedule(ctx context.Context, arg string, structure bool) (*domain.Schedule, error) {
	r, err := a.load(ctx, arg)
	if err != nil {
		return nil, err
	}
	r, err = a.prepare(ctx, r, structure)
	if err != nil {
		return nil, err
	}
	return a.cached.Schedule(ctx, r, a.cfg.Mode)
}
