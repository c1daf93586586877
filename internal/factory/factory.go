// Package factory wires the application's components together.
package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/triviad/triviad/internal/config"
	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/model"
	"github.com/triviad/triviad/internal/services/questions"
	"github.com/triviad/triviad/internal/services/quiz"
	"github.com/triviad/triviad/internal/services/scoreboard"
	"github.com/triviad/triviad/internal/storage"
	"github.com/triviad/triviad/internal/storage/memory"
	redisstorage "github.com/triviad/triviad/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	Registry   storage.Registry
	Questions  *questions.Service
	Metrics    *metrics.Metrics
	Quiz       *quiz.Controller
	Scoreboard *scoreboard.Service

	// registryCloser closes the Redis connection when that backend is in
	// use; nil for the in-memory backend.
	registryCloser io.Closer
}

// New creates an application from config. Question sources are loaded here;
// an unreadable source is a fatal startup error.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	registry, closer, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	if err := sweepRegistry(registry, logger); err != nil {
		return nil, err
	}

	bank := questions.New(logger)
	if err := bank.LoadFromFile(model.ThemeTech, cfg.TechQuestions); err != nil {
		return nil, fmt.Errorf("load tech questions: %w", err)
	}
	if err := bank.LoadFromFile(model.ThemeGeneral, cfg.GeneralQuestions); err != nil {
		return nil, fmt.Errorf("load general questions: %w", err)
	}

	m := metrics.New()

	return &App{
		Registry:       registry,
		Questions:      bank,
		Metrics:        m,
		Quiz:           quiz.NewController(registry, bank, m, logger),
		Scoreboard:     scoreboard.New(registry, bank),
		registryCloser: closer,
	}, nil
}

// Close releases backend resources
func (a *App) Close() error {
	if a.registryCloser != nil {
		return a.registryCloser.Close()
	}
	return nil
}

// sweepRegistry removes sessions a previous process left behind. Registry
// entries are connection-scoped, so anything found in a shared backend at
// startup is stale.
func sweepRegistry(registry storage.Registry, logger *slog.Logger) error {
	ctx := context.Background()

	stale, err := registry.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("inspect registry: %w", err)
	}
	for _, id := range stale {
		if err := registry.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove stale session %s: %w", id, err)
		}
	}
	if len(stale) > 0 {
		logger.Info("removed stale registry sessions", slog.Int("count", len(stale)))
	}
	return nil
}

func newRegistry(cfg *config.Config) (storage.Registry, io.Closer, error) {
	switch cfg.StorageType {
	case config.StorageTypeMemory:
		return memory.New(), nil, nil
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		registry, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return registry, registry, nil
	default:
		return nil, nil, errors.New("invalid storage_type: must be 'memory' or 'redis'")
	}
}
