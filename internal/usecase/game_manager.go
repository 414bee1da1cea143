package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gridplay/tictactoe-server/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type broadcaster interface {
	Publish(game *entity.Game)
}

// GameManager owns every game exclusively: callers hold game IDs, never
// games. It serializes moves per game so that the check-then-mutate sequence
// of a move can never observe a stale board.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	events   broadcaster

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, events broadcaster) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		events:   events,
		locks:    make(map[string]*sync.Mutex),
	}
}

// CreateGame - stores a fresh game under a random UUID and returns it.
// A collision would silently overwrite; with 128-bit random IDs that is
// an accepted risk, not a guarded case.
func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

// GetGame - returns a snapshot of the game's current state.
func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeMove - applies one move to the game and returns the updated state.
// The load-apply-store sequence runs under a per-game lock; moves on
// different games do not contend.
func (that *GameManager) MakeMove(ctx context.Context, id string, position int) (*entity.Game, error) {
	lock := that.gameLock(id)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err = game.ApplyMove(position); err != nil {
		return nil, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.events.Publish(game.Clone())

	if game.IsFinished() {
		that.logger.Info("game finished", "gameID", game.ID, "status", game.Status)
	}

	return game, nil
}

// gameLock - returns the mutex serializing moves on one game, creating it on
// first use. Lock entries are never evicted, matching the process-lifetime
// retention of the games themselves.
func (that *GameManager) gameLock(id string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[id] = lock
	}

	return lock
}
