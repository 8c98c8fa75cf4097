package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"github.com/geocoder89/courseadmin/internal/stats"
	"github.com/geocoder89/courseadmin/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type CourseLister interface {
	List(ctx context.Context) ([]course.Course, error)
}

type SummaryCache interface {
	Get(key string) (any, bool)
	Generation() uint64
	SetIfGeneration(key string, val any, gen uint64) bool
}

const (
	trendPlaceholder = "placeholder"
	trendComputed    = "computed"
)

type StatsHandler struct {
	courses CourseLister
	regs    RegistrationLister
	cache   SummaryCache
	log     *slog.Logger
}

func NewStatsHandler(courses CourseLister, regs RegistrationLister, cache SummaryCache, log *slog.Logger) *StatsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &StatsHandler{courses: courses, regs: regs, cache: cache, log: log}
}

// GET /stats?trend=placeholder|computed
//
// The default trend is the fixed illustrative series; "computed" buckets the
// registrations by month instead.
func (h *StatsHandler) GetStats(ctx *gin.Context) {
	trend := ctx.DefaultQuery("trend", trendPlaceholder)
	if trend != trendPlaceholder && trend != trendComputed {
		RespondError(ctx, http.StatusBadRequest, "invalid_query", "trend must be placeholder or computed", nil)
		return
	}

	key := utils.BuildStatsCacheKey(trend)
	var gen uint64
	if h.cache != nil {
		gen = h.cache.Generation()
		if v, ok := h.cache.Get(key); ok {
			if s, ok := v.(stats.Summary); ok {
				ctx.Header("X-Cache", "HIT")
				RespondJSONWithETag(ctx, http.StatusOK, s)
				return
			}
		}
	}

	s, err := h.compute(ctx.Request.Context(), trend)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "compute stats failed", "err", err)
		RespondInternal(ctx, "Could not compute statistics")
		return
	}

	if h.cache != nil {
		// a course change that cleared the cache mid-compute makes s stale
		h.cache.SetIfGeneration(key, s, gen)
	}
	ctx.Header("X-Cache", "MISS")
	RespondJSONWithETag(ctx, http.StatusOK, s)
}

func (h *StatsHandler) compute(ctx context.Context, trend string) (stats.Summary, error) {
	var (
		courses []course.Course
		regs    []registration.Registration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = h.courses.List(gctx)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		regs, err = h.regs.List(gctx)
		if err != nil {
			return fmt.Errorf("list registrations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats.Summary{}, err
	}

	s := stats.Compute(courses, regs)
	if trend == trendComputed {
		s.Trend = stats.MonthlyRegistrations(regs)
	}
	return s, nil
}
