package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/geocoder89/courseadmin/internal/observability"
)

type ReadinessDeps interface {
	Ping(ctx context.Context) error
}

// Loop is the part of the job loop the ops endpoints report on.
type Loop interface {
	Ready() bool
	Stats() *observability.WorkerStats
}

// OpsHandler serves /healthz, /readyz and /statz for the standalone worker,
// plus /metrics when a metrics handler is given.
// Ready means the loop is claiming and Redis answers.
func OpsHandler(deps ReadinessDeps, loop Loop, metrics http.Handler, isShuttingDown func() bool) http.Handler {
	mux := http.NewServeMux()

	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if isShuttingDown() {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		if !loop.Ready() {
			http.Error(w, "worker not claiming", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		err := deps.Ping(ctx)

		if err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/statz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loop.Stats().Snapshot())
	})

	return mux
}
