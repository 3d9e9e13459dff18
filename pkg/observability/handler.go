package observability

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource reports the current state of a session.
type StatusSource interface {
	Snapshot() domain.SessionSnapshot
}

// NewHandler serves /metrics, /status and /healthz.
// metrics may be nil, in which case /metrics is not mounted.
func NewHandler(source StatusSource, metrics *Metrics) http.Handler {
	r := chi.NewRouter()

	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(source.Snapshot()); err != nil {
			slog.Warn("status: failed to encode snapshot", "err", err)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		snap := source.Snapshot()
		if snap.Status == domain.SessionFailed {
			http.Error(w, snap.Error, http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(string(snap.Status)))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
