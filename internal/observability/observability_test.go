package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/geocoder89/courseadmin/internal/actorctx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogger_AddsTraceIDsFromActiveSpan(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "hello")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}

	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v, want %s", rec["trace_id"], span.SpanContext().TraceID())
	}
	if rec["span_id"] == nil {
		t.Fatalf("expected span_id in %v", rec)
	}
}

func TestLogger_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod")

	log.InfoContext(actorctx.WithRequestID(context.Background(), "req-42"), "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["request_id"] != "req-42" {
		t.Fatalf("request_id = %v, want req-42", rec["request_id"])
	}
}

func TestLogger_NoSpanNoTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "prod").Info("plain")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatalf("did not expect trace_id: %v", rec)
	}
}

func TestObserveStore_ClassifiesErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	tests := []struct {
		name      string
		err       error
		wantClass string
	}{
		{name: "not_found", err: errors.New("course not found"), wantClass: "not_found"},
		{name: "canceled", err: fmt.Errorf("list: %w", context.Canceled), wantClass: "canceled"},
		{name: "timeout", err: context.DeadlineExceeded, wantClass: "timeout"},
		{name: "closed", err: errors.New("store closed"), wantClass: "closed"},
		{name: "other", err: errors.New("boom"), wantClass: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ObserveStore("courses.update", func() error { return tt.err })
			if got != tt.err {
				t.Fatalf("ObserveStore returned %v, want %v", got, tt.err)
			}

			n := testutil.ToFloat64(p.StoreErrorsTotal.WithLabelValues("courses.update", tt.wantClass))
			if n != 1 {
				t.Fatalf("errors_total{class=%s} = %v, want 1", tt.wantClass, n)
			}
		})
	}
}

func TestWorkerStats_Snapshot(t *testing.T) {
	s := NewWorkerStats()
	s.IncClaimed()
	s.IncClaimed()
	s.IncDone()
	s.IncRetried()
	s.ObserveRun(10 * time.Millisecond)
	s.ObserveRun(30 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Claimed != 2 || snap.Done != 1 || snap.Retried != 1 || snap.Failed != 0 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.AverageRun != 20*time.Millisecond {
		t.Fatalf("average = %v, want 20ms", snap.AverageRun)
	}
	if snap.MaxRun != 30*time.Millisecond {
		t.Fatalf("max = %v, want 30ms", snap.MaxRun)
	}
}
