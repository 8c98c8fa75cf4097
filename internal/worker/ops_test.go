package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeLoop struct {
	ready bool
	stats *observability.WorkerStats
}

func (f fakeLoop) Ready() bool                       { return f.ready }
func (f fakeLoop) Stats() *observability.WorkerStats { return f.stats }

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestOpsHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		ready    bool
		shutting bool
		want     int
	}{
		{name: "ready", ready: true, want: http.StatusOK},
		{name: "loop not started", ready: false, want: http.StatusServiceUnavailable},
		{name: "redis down", ready: true, pingErr: errors.New("dial tcp"), want: http.StatusServiceUnavailable},
		{name: "shutting down", ready: true, shutting: true, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := OpsHandler(
				fakePinger{err: tt.pingErr},
				fakeLoop{ready: tt.ready, stats: observability.NewWorkerStats()},
				nil,
				func() bool { return tt.shutting },
			)

			if w := get(h, "/readyz"); w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if w := get(h, "/healthz"); w.Code != http.StatusOK {
				t.Fatalf("healthz should always be ok, got %d", w.Code)
			}
		})
	}
}

func TestOpsHandler_Stats(t *testing.T) {
	stats := observability.NewWorkerStats()
	stats.IncClaimed()
	stats.IncDone()

	h := OpsHandler(fakePinger{}, fakeLoop{ready: true, stats: stats}, nil, func() bool { return false })

	w := get(h, "/statz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"claimed":1`) {
		t.Fatalf("unexpected stats body: %s", w.Body.String())
	}
}

func TestOpsHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	prom.JobResults.WithLabelValues("report.csv", "done").Inc()

	h := OpsHandler(
		fakePinger{},
		fakeLoop{ready: true, stats: observability.NewWorkerStats()},
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		func() bool { return false },
	)

	w := get(h, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "courseadmin_jobs_results_total") {
		t.Fatalf("job metrics not exposed: %s", w.Body.String())
	}
}

func TestOpsHandler_NoMetricsHandler(t *testing.T) {
	h := OpsHandler(fakePinger{}, fakeLoop{ready: true, stats: observability.NewWorkerStats()}, nil, func() bool { return false })

	if w := get(h, "/metrics"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a metrics handler, got %d", w.Code)
	}
}
