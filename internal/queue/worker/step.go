package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/queue/redisqueue"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/geocoder89/courseadmin/internal/queue/worker")

// ProcessOne claims and executes at most one job. It reports whether a job
// was claimed; the error is about claiming or recording, never about the job
// itself, whose failure is stored on the job.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	j, err := w.queue.Claim(ctx, w.cfg.ClaimTimeout)
	if err != nil {
		if errors.Is(err, redisqueue.ErrNoJob) || errors.Is(err, context.Canceled) {
			return false, nil
		}
		return false, err
	}
	w.stats.IncClaimed()

	// the job runs to completion even while the worker is shutting down
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.cfg.JobTimeout)
	defer cancel()

	runCtx, span := tracer.Start(runCtx, "report.job")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", j.ID),
		attribute.String("job.type", string(j.Type)),
		attribute.Int("job.attempt", j.Attempts),
	)

	w.inFlight(1)
	start := time.Now()
	artifact, runErr := w.runner.Run(runCtx, j)
	elapsed := time.Since(start)
	w.inFlight(-1)
	w.stats.ObserveRun(elapsed)

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		return true, w.handleFailure(runCtx, j, runErr, elapsed)
	}

	if err := w.queue.Complete(runCtx, j, artifact); err != nil {
		return true, w.handleFailure(runCtx, j, fmt.Errorf("store result: %w", err), elapsed)
	}

	w.stats.IncDone()
	w.observe(j, "done", elapsed)
	w.log.InfoContext(runCtx, "report job done",
		"job_id", j.ID,
		"job_type", j.Type,
		"attempt", j.Attempts,
		"bytes", len(artifact.Body),
		"duration_ms", elapsed.Milliseconds(),
	)
	return true, nil
}

func (w *Worker) handleFailure(ctx context.Context, j jobs.Job, cause error, elapsed time.Duration) error {
	// a malformed job never gets better on retry
	if errors.Is(cause, jobs.ErrInvalidJobPayload) || errors.Is(cause, jobs.ErrInvalidJobType) {
		j.MaxAttempts = j.Attempts
	}

	stored, err := w.queue.Fail(ctx, j, cause, time.Now().Add(w.cfg.Backoff(j.Attempts-1)))
	if err != nil {
		return fmt.Errorf("record failure of job %s: %w", j.ID, err)
	}

	result := "retry"
	if stored.Status == jobs.JobFailed {
		result = "failed"
		w.stats.IncFailed()
	} else {
		w.stats.IncRetried()
	}
	w.observe(j, result, elapsed)

	w.log.WarnContext(ctx, "report job failed",
		"job_id", j.ID,
		"job_type", j.Type,
		"attempt", j.Attempts,
		"result", result,
		"next_run_at", stored.RunAt,
		"err", cause,
	)
	return nil
}

func (w *Worker) observe(j jobs.Job, result string, elapsed time.Duration) {
	if w.prom == nil {
		return
	}
	w.prom.JobResults.WithLabelValues(string(j.Type), result).Inc()
	w.prom.JobDuration.WithLabelValues(string(j.Type), result).Observe(elapsed.Seconds())
}

func (w *Worker) inFlight(delta float64) {
	if w.prom == nil {
		return
	}
	w.prom.JobsInFlight.Add(delta)
}
