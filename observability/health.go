package observability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency (the store) can serve requests.
type ReadinessCheck func() error

// NewOpsRouter exposes liveness, readiness and Prometheus metrics.
func NewOpsRouter(ready ReadinessCheck) http.Handler {
	r := chi.NewRouter()
	r.Get("/health/live", HealthLiveHandler)
	r.Get("/health/ready", HealthReadyHandler(ready))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func HealthLiveHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func HealthReadyHandler(ready ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil {
			if err := ready(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
