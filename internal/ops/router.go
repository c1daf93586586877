// Package ops serves the operator-facing HTTP surface: health, the current
// scoreboard rendering, and Prometheus metrics. It is read-only and separate
// from the quiz protocol listener.
package ops

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/triviad/triviad/internal/metrics"
	"github.com/triviad/triviad/internal/services/scoreboard"
)

// RouterConfig holds dependencies for the operator router
type RouterConfig struct {
	Logger     *slog.Logger
	Scoreboard *scoreboard.Service
	Metrics    *metrics.Metrics
}

// NewRouter creates the operator HTTP router
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/scoreboard", handleScoreboard(cfg)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func handleScoreboard(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := cfg.Scoreboard.RenderOperator(r.Context())
		if err != nil {
			cfg.Logger.Error("scoreboard render failed", slog.String("error", err.Error()))
			http.Error(w, "scoreboard unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(board))
	}
}
