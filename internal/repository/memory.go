package repository

import (
	"context"
	"sync"

	"github.com/gridplay/tictactoe-server/internal/apperror"
	"github.com/gridplay/tictactoe-server/internal/entity"
)

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]*entity.Game
}

// NewMemoryGameRepository - returns an in-memory game store that lives for
// the lifetime of the process. Games are cloned on both the way in and the
// way out, so callers never share a board with the store.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]*entity.Game),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = game.Clone()

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existingGame, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return existingGame.Clone(), nil
}
