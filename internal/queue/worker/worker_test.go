package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/geocoder89/courseadmin/internal/queue/redisqueue"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeQueue struct {
	mu        sync.Mutex
	pending   []jobs.Job
	completed map[string]report.Artifact
	failed    []jobs.Job
	claimErr  error
}

func newFakeQueue(js ...jobs.Job) *fakeQueue {
	return &fakeQueue{pending: js, completed: map[string]report.Artifact{}}
}

func (f *fakeQueue) Claim(ctx context.Context, timeout time.Duration) (jobs.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claimErr != nil {
		return jobs.Job{}, f.claimErr
	}
	if len(f.pending) == 0 {
		f.mu.Unlock()
		// stands in for the blocking BRPOP
		time.Sleep(time.Millisecond)
		f.mu.Lock()
		return jobs.Job{}, redisqueue.ErrNoJob
	}
	j := f.pending[0]
	f.pending = f.pending[1:]
	j.Status = jobs.JobProcessing
	j.Attempts++
	return j, nil
}

func (f *fakeQueue) Complete(ctx context.Context, j jobs.Job, a report.Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[j.ID] = a
	return nil
}

func (f *fakeQueue) Fail(ctx context.Context, j jobs.Job, cause error, retryAt time.Time) (jobs.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if j.CanRetry() {
		j.Status = jobs.JobPending
		j.RunAt = retryAt
		f.pending = append(f.pending, j)
	} else {
		j.Status = jobs.JobFailed
	}
	f.failed = append(f.failed, j)
	return j, nil
}

type runnerFunc func(ctx context.Context, j jobs.Job) (report.Artifact, error)

func (fn runnerFunc) Run(ctx context.Context, j jobs.Job) (report.Artifact, error) {
	return fn(ctx, j)
}

func testJob(t *testing.T) jobs.Job {
	t.Helper()

	b, err := jobs.EncodePayload(jobs.JobExportRegistrationsCSV, jobs.ExportCSVPayload{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	j, err := jobs.NewJob(jobs.JobExportRegistrationsCSV, b, time.Time{})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return j
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noBackoff(int) time.Duration { return 0 }

func TestProcessOneSuccess(t *testing.T) {
	j := testJob(t)
	q := newFakeQueue(j)
	prom := observability.NewProm(prometheus.NewRegistry())

	w := New(Config{Backoff: noBackoff}, q, runnerFunc(func(ctx context.Context, j jobs.Job) (report.Artifact, error) {
		return report.Artifact{Filename: "registrations.csv", Body: []byte("ok")}, nil
	}), quietLogger(), prom)

	claimed, err := w.ProcessOne(context.Background())
	if err != nil || !claimed {
		t.Fatalf("process: claimed=%v err=%v", claimed, err)
	}
	if string(q.completed[j.ID].Body) != "ok" {
		t.Fatalf("artifact not stored")
	}

	snap := w.Stats().Snapshot()
	if snap.Claimed != 1 || snap.Done != 1 || snap.Runs != 1 {
		t.Fatalf("unexpected stats: %+v", snap)
	}
	if got := testutil.ToFloat64(prom.JobResults.WithLabelValues(string(jobs.JobExportRegistrationsCSV), "done")); got != 1 {
		t.Fatalf("expected one done result, got %v", got)
	}
	if got := testutil.ToFloat64(prom.JobsInFlight); got != 0 {
		t.Fatalf("in-flight gauge should return to 0, got %v", got)
	}
}

func TestProcessOneEmptyQueue(t *testing.T) {
	w := New(Config{}, newFakeQueue(), runnerFunc(func(ctx context.Context, j jobs.Job) (report.Artifact, error) {
		t.Fatalf("runner must not be called")
		return report.Artifact{}, nil
	}), quietLogger(), nil)

	claimed, err := w.ProcessOne(context.Background())
	if err != nil || claimed {
		t.Fatalf("expected nothing claimed, got claimed=%v err=%v", claimed, err)
	}
}

func TestProcessOneClaimError(t *testing.T) {
	q := newFakeQueue()
	q.claimErr = errors.New("redis down")
	w := New(Config{}, q, nil, quietLogger(), nil)

	if _, err := w.ProcessOne(context.Background()); err == nil {
		t.Fatalf("expected claim error")
	}
}

func TestProcessOneRetriesThenFails(t *testing.T) {
	j := testJob(t)
	j.MaxAttempts = 2
	q := newFakeQueue(j)

	calls := 0
	w := New(Config{Backoff: noBackoff}, q, runnerFunc(func(ctx context.Context, j jobs.Job) (report.Artifact, error) {
		calls++
		return report.Artifact{}, errors.New("render failed")
	}), quietLogger(), nil)

	for range 3 {
		if _, err := w.ProcessOne(context.Background()); err != nil {
			t.Fatalf("process: %v", err)
		}
	}

	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if len(q.failed) != 2 || q.failed[1].Status != jobs.JobFailed {
		t.Fatalf("expected terminal failure after max attempts: %+v", q.failed)
	}

	snap := w.Stats().Snapshot()
	if snap.Retried != 1 || snap.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", snap)
	}
}

func TestProcessOneInvalidPayloadIsNotRetried(t *testing.T) {
	j := testJob(t)
	q := newFakeQueue(j)

	w := New(Config{Backoff: noBackoff}, q, runnerFunc(func(ctx context.Context, j jobs.Job) (report.Artifact, error) {
		return report.Artifact{}, jobs.ErrInvalidJobPayload
	}), quietLogger(), nil)

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(q.failed) != 1 || q.failed[0].Status != jobs.JobFailed {
		t.Fatalf("expected immediate failure: %+v", q.failed)
	}
	if len(q.pending) != 0 {
		t.Fatalf("job should not be requeued")
	}
}

func TestRunDrainsAndStops(t *testing.T) {
	q := newFakeQueue(testJob(t), testJob(t), testJob(t))

	var mu sync.Mutex
	done := 0
	w := New(Config{Concurrency: 2}, q, runnerFunc(func(ctx context.Context, j jobs.Job) (report.Artifact, error) {
		mu.Lock()
		done++
		mu.Unlock()
		return report.Artifact{}, nil
	}), quietLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := done
		mu.Unlock()
		if n == 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("worker processed %d of 3 jobs", n)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	if !w.Ready() {
		t.Fatalf("worker should be ready while running")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("run: %v", err)
	}
	if w.Ready() {
		t.Fatalf("worker should not be ready after stop")
	}
}

func TestStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := New(Config{}, newFakeQueue(), nil, quietLogger(), nil)

	r := gin.New()
	r.GET("/workerz", w.StatusHandler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workerz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before Run, got %d", rec.Code)
	}

	w.setReady(true)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workerz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when ready, got %d", rec.Code)
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		min     time.Duration
		max     time.Duration
	}{
		{attempt: -1, min: time.Second, max: 1100 * time.Millisecond},
		{attempt: 0, min: time.Second, max: 1100 * time.Millisecond},
		{attempt: 2, min: 4 * time.Second, max: 4400 * time.Millisecond},
		{attempt: 5, min: 30 * time.Second, max: 33 * time.Second},
		{attempt: 70, min: 30 * time.Second, max: 33 * time.Second},
	}

	for _, tt := range tests {
		got := ExponentialBackoff(tt.attempt)
		if got < tt.min || got > tt.max {
			t.Fatalf("attempt %d: %s not in [%s, %s]", tt.attempt, got, tt.min, tt.max)
		}
	}
}
