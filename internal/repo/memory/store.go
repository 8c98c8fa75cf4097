package memory

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/courseadmin/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var ErrClosed = errors.New("store closed")

var tracer = otel.Tracer("github.com/geocoder89/courseadmin/internal/repo/memory")

// Options configure an in-memory store. Latency is applied after the
// operation's effect, to model the round trip of a remote service.
type Options struct {
	Latency time.Duration
	Prom    *observability.Prom
}

func observe(ctx context.Context, prom *observability.Prom, op string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	run := func() error { return fn(ctx) }

	var err error
	if prom != nil {
		err = prom.ObserveStore(op, run)
	} else {
		err = run()
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

// settle waits out the simulated latency. The effect has already applied;
// a cancelled ctx only abandons the wait.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
