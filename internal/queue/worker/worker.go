package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/geocoder89/courseadmin/internal/report"
	"golang.org/x/sync/errgroup"
)

type JobsQueue interface {
	Claim(ctx context.Context, timeout time.Duration) (jobs.Job, error)
	Complete(ctx context.Context, j jobs.Job, a report.Artifact) error
	Fail(ctx context.Context, j jobs.Job, cause error, retryAt time.Time) (jobs.Job, error)
}

type Runner interface {
	Run(ctx context.Context, j jobs.Job) (report.Artifact, error)
}

type Config struct {
	Concurrency int
	// how long one Claim may block waiting for work
	ClaimTimeout time.Duration
	// pause after a claim error so a down Redis is not hammered
	ErrorPause time.Duration
	JobTimeout time.Duration
	Backoff    func(attempt int) time.Duration
}

type Worker struct {
	cfg    Config
	queue  JobsQueue
	runner Runner
	log    *slog.Logger
	prom   *observability.Prom
	stats  *observability.WorkerStats

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, queue JobsQueue, runner Runner, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.ClaimTimeout <= 0 {
		cfg.ClaimTimeout = time.Second
	}
	if cfg.ErrorPause <= 0 {
		cfg.ErrorPause = time.Second
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	if cfg.Backoff == nil {
		cfg.Backoff = ExponentialBackoff
	}
	if log == nil {
		log = slog.Default()
	}

	return &Worker{
		cfg:    cfg,
		queue:  queue,
		runner: runner,
		log:    log,
		prom:   prom,
		stats:  observability.NewWorkerStats(),
	}
}

func (w *Worker) Stats() *observability.WorkerStats {
	return w.stats
}

func (w *Worker) Ready() bool {
	w.readyMu.RLock()
	defer w.readyMu.RUnlock()
	return w.ready
}

func (w *Worker) setReady(v bool) {
	w.readyMu.Lock()
	w.ready = v
	w.readyMu.Unlock()
}

// Run processes jobs with cfg.Concurrency loops until ctx is cancelled.
// A job already executing finishes before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	w.setReady(true)
	defer w.setReady(false)

	w.log.InfoContext(ctx, "report worker started", "concurrency", w.cfg.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Concurrency; i++ {
		g.Go(func() error {
			w.loop(gctx)
			return nil
		})
	}
	err := g.Wait()

	w.log.Info("report worker stopped")
	return err
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		_, err := w.ProcessOne(ctx)
		if err != nil && ctx.Err() == nil {
			w.log.WarnContext(ctx, "report worker claim failed", "err", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.ErrorPause):
			}
		}
	}
}
