package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/supertictactoe/internal/config"
	"github.com/mcoot/supertictactoe/internal/dependencies/clock"
	"github.com/mcoot/supertictactoe/internal/dependencies/random"
	"github.com/mcoot/supertictactoe/internal/services/game"
	"github.com/mcoot/supertictactoe/internal/storage"
	"github.com/mcoot/supertictactoe/internal/storage/memory"
	redisstorage "github.com/mcoot/supertictactoe/internal/storage/redis"
	"github.com/mcoot/supertictactoe/internal/stream"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	GameController *game.Controller
	HubManager     *stream.HubManager
	Publisher      *stream.Publisher

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// ConfigFromEnv maps loaded server settings onto a factory Config
func ConfigFromEnv(cfg config.Config, logger *slog.Logger) Config {
	out := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
	}
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.GameTTL = cfg.GameTTL
		out.RedisConfig = &redisCfg
	}
	return out
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var (
		store   storage.Storage
		closers []io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		store = memory.New()
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, clock.New(), random.New(), logger)
	app.closers = closers
	logger.Info("application wired", slog.String("storage", storageType))
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	hubManager := stream.NewHubManager(logger)
	publisher := stream.NewPublisher(hubManager, logger)
	gameController := game.NewController(store, publisher, clk, rnd, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		GameController: gameController,
		HubManager:     hubManager,
		Publisher:      publisher,
	}
}

// Close ends every watch stream and releases storage connections
func (a *App) Close() error {
	a.HubManager.CloseAll()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
