package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router *mux.Router

	allowedOrigins []string
}

// New - builds the HTTP server: game routes, health, ping, metrics and the
// websocket state watcher, all behind CORS.
func New(logger *slog.Logger, gameHandlers *Handlers, watchHandler http.HandlerFunc, allowedOrigins []string) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/", withMetrics("health", gameHandlers.HealthHandler)).Methods(http.MethodGet)
	router.HandleFunc("/ping", withMetrics("ping", pingHandler)).Methods(http.MethodGet)
	router.HandleFunc("/games", withMetrics("create_game", gameHandlers.CreateGameHandler)).Methods(http.MethodPost)
	router.HandleFunc("/games/{gameId}", withMetrics("get_game", gameHandlers.GetGameHandler)).Methods(http.MethodGet)
	router.HandleFunc("/games/{gameId}/moves", withMetrics("make_move", gameHandlers.MakeMoveHandler)).Methods(http.MethodPost)
	router.HandleFunc("/ws/games/{gameId}", watchHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return &Server{
		logger:         logger.With("component", "rest_server"),
		router:         router,
		allowedOrigins: allowedOrigins,
	}
}

// Router - exposes the route table, mainly for tests.
func (that *Server) Router() http.Handler {
	return that.withCORS(that.router)
}

// Start - serves until ctx is canceled, then drains connections.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		that.logger.Info("server stopped")

		return nil
	}
}

func (that *Server) withCORS(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(that.allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)(next)
}
