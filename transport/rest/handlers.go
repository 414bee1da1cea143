package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gridplay/tictactoe-server/internal/apperror"
	"github.com/gridplay/tictactoe-server/internal/entity"
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeMove(ctx context.Context, id string, position int) (*entity.Game, error)
}

type Handlers struct {
	logger *slog.Logger
	games  gameUseCase
}

func NewHandlers(logger *slog.Logger, games gameUseCase) *Handlers {
	return &Handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

type createGameResponse struct {
	GameID string `json:"gameId"`
}

type gameStateResponse struct {
	Board      [9]string `json:"board"`
	NextPlayer string    `json:"nextPlayer"`
	Status     string    `json:"status"`
}

type moveRequest struct {
	Position *int `json:"position"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func newGameStateResponse(game *entity.Game) gameStateResponse {
	return gameStateResponse{
		Board:      game.Board,
		NextPlayer: game.NextPlayer,
		Status:     game.Status,
	}
}

// HealthHandler - reports that the service is up.
func (that *Handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, map[string]string{"message": "Healthy"})
}

// CreateGameHandler - creates a new game and returns its ID.
func (that *Handlers) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	gamesCreated.Inc()

	that.writeJSON(w, http.StatusCreated, createGameResponse{GameID: game.ID})
}

// GetGameHandler - returns the current state of one game.
func (that *Handlers) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameId"]

	game, err := that.games.GetGame(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameStateResponse(game))
}

// MakeMoveHandler - applies one move and returns the updated state. The
// position is bounds-checked here before it ever reaches the engine; the
// engine re-validates it anyway.
func (that *Handlers) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameId"]

	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeErrorDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Position == nil || *request.Position < 0 || *request.Position > 8 {
		movesApplied.WithLabelValues("rejected").Inc()
		that.writeError(w, apperror.ErrInvalidPosition)
		return
	}

	game, err := that.games.MakeMove(r.Context(), gameID, *request.Position)
	if err != nil {
		movesApplied.WithLabelValues("rejected").Inc()
		that.writeError(w, err)
		return
	}

	movesApplied.WithLabelValues("applied").Inc()

	that.writeJSON(w, http.StatusOK, newGameStateResponse(game))
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError - maps domain errors onto HTTP statuses and the wire-level
// detail messages clients match on.
func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeErrorDetail(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, apperror.ErrGameFinished):
		that.writeErrorDetail(w, http.StatusBadRequest, "Game is already finished")
	case errors.Is(err, apperror.ErrInvalidPosition):
		that.writeErrorDetail(w, http.StatusBadRequest, "Position must be between 0 and 8")
	case errors.Is(err, apperror.ErrCellOccupied):
		that.writeErrorDetail(w, http.StatusBadRequest, "Cell is already occupied")
	default:
		that.logger.Error("request failed", "error", err)
		that.writeErrorDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (that *Handlers) writeErrorDetail(w http.ResponseWriter, status int, detail string) {
	that.writeJSON(w, status, errorResponse{Detail: detail})
}
