package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridplay/tictactoe-server/internal/config"
	"github.com/gridplay/tictactoe-server/internal/events"
	"github.com/gridplay/tictactoe-server/internal/repository"
	"github.com/gridplay/tictactoe-server/internal/repository/storage"
	"github.com/gridplay/tictactoe-server/internal/usecase"
	"github.com/gridplay/tictactoe-server/transport/rest"
	"github.com/gridplay/tictactoe-server/transport/websocket"
)

// RunApp - wires storage, game manager and HTTP transport together and runs
// until a signal arrives or the server fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, cleanup, err := newGameRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer cleanup()

	broadcaster := events.New()
	gameManager := usecase.NewGameManager(logger, gameRepo, broadcaster)

	watcher := websocket.NewWatcher(logger, gameManager, broadcaster, conf.CORS.AllowedOrigins)
	gameHandlers := rest.NewHandlers(logger, gameManager)
	server := rest.New(logger, gameHandlers, watcher.WatchHandler, conf.CORS.AllowedOrigins)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage.Backend)

	if err = server.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// newGameRepository - picks the game store backend from config: the default
// process-lifetime in-memory map, or redis when games should outlive a
// single replica.
func newGameRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	switch conf.Storage.Backend {
	case config.StorageMemory, "":
		return repository.NewMemoryGameRepository(), func() {}, nil

	case config.StorageRedis:
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		cleanup := func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				logger.Error("could not close redis storage", "error", closeErr)
			}
		}

		return repository.NewGameRepository(redisStorage.Connection), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %q", conf.Storage.Backend)
	}
}
