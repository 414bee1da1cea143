package rest

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by handler and status code",
		},
		[]string{"handler", "status"},
	)
	gamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tictactoe_games_created_total",
			Help: "Total games created",
		},
	)
	movesApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_moves_total",
			Help: "Total move attempts by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests)
	prometheus.MustRegister(gamesCreated)
	prometheus.MustRegister(movesApplied)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (that *statusRecorder) WriteHeader(status int) {
	that.status = status
	that.ResponseWriter.WriteHeader(status)
}

// withMetrics - counts every request against the named handler, labeled with
// the response status.
func withMetrics(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		httpRequests.WithLabelValues(name, strconv.Itoa(recorder.status)).Inc()
	}
}
