package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/gridplay/tictactoe-server/internal/apperror"
	"github.com/gridplay/tictactoe-server/internal/entity"
)

type gameUseCase interface {
	GetGame(ctx context.Context, id string) (*entity.Game, error)
}

type broadcaster interface {
	Subscribe(gameID string) chan *entity.Game
	Unsubscribe(gameID string, updates chan *entity.Game)
}

// Watcher streams game state over a websocket: the current state on connect,
// then a snapshot after every applied move. Watchers are read-only; moves
// still go through the REST endpoint.
type Watcher struct {
	logger   *slog.Logger
	games    gameUseCase
	events   broadcaster
	upgrader websocket.Upgrader
}

func NewWatcher(logger *slog.Logger, games gameUseCase, events broadcaster, allowedOrigins []string) *Watcher {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = struct{}{}
	}

	return &Watcher{
		logger: logger.With("component", "ws_watcher"),
		games:  games,
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

type stateMessage struct {
	GameID     string    `json:"gameId"`
	Board      [9]string `json:"board"`
	NextPlayer string    `json:"nextPlayer"`
	Status     string    `json:"status"`
}

func newStateMessage(game *entity.Game) stateMessage {
	return stateMessage{
		GameID:     game.ID,
		Board:      game.Board,
		NextPlayer: game.NextPlayer,
		Status:     game.Status,
	}
}

// WatchHandler - upgrades the connection and pushes state changes for one
// game until the client disconnects.
func (that *Watcher) WatchHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameId"]

	// reject unknown games before upgrading, so clients get a plain 404
	if _, err := that.games.GetGame(r.Context(), gameID); err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		that.logger.Error("failed to get game", "gameID", gameID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		that.logger.Error("websocket upgrade failed", "gameID", gameID, "error", err)
		return
	}
	defer conn.Close()

	updates := that.events.Subscribe(gameID)
	defer that.events.Unsubscribe(gameID, updates)

	// fetch the snapshot after subscribing so a move racing the connect is
	// never missed: it lands either in the snapshot or on the channel
	game, err := that.games.GetGame(r.Context(), gameID)
	if err != nil {
		that.logger.Error("failed to get game", "gameID", gameID, "error", err)
		return
	}

	if err = conn.WriteJSON(newStateMessage(game)); err != nil {
		that.logger.Error("failed to send initial state", "gameID", gameID, "error", err)
		return
	}

	// the read loop only detects the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	that.logger.Info("watcher connected", "gameID", gameID)

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err = conn.WriteJSON(newStateMessage(snapshot)); err != nil {
				that.logger.Info("watcher disconnected", "gameID", gameID)
				return
			}
		case <-closed:
			that.logger.Info("watcher closed connection", "gameID", gameID)
			return
		}
	}
}
