package integration__test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/courseadmin/internal/cache"
	"github.com/geocoder89/courseadmin/internal/dashboard"
	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	apphttp "github.com/geocoder89/courseadmin/internal/http"
	"github.com/geocoder89/courseadmin/internal/http/handlers"
	"github.com/geocoder89/courseadmin/internal/notifications"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/geocoder89/courseadmin/internal/repo/memory"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type testApp struct {
	router   *gin.Engine
	courses  *memory.CourseStore
	regs     *memory.RegistrationStore
	exporter *report.Exporter
	inbox    *notifications.Inbox
	log      *slog.Logger
	prom     *observability.Prom
}

// setupApp wires the full router over in-memory stores. queue may be nil,
// in which case report jobs answer 503.
func setupApp(t *testing.T, queue handlers.ReportJobsQueue) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	opts := memory.Options{Prom: prom}
	courses := memory.NewCourseStore(opts, course.Seed()...)
	regs := memory.NewRegistrationStore(opts, registration.Seed()...)
	t.Cleanup(func() {
		_ = courses.Close()
		_ = regs.Close()
	})

	exporter := report.NewExporter(report.Thai, nil, report.FormatLegacy)
	statsCache := cache.New(0)
	inbox := notifications.NewInbox(20)

	ctrl := dashboard.New(dashboard.Deps{
		Courses:       courses,
		Registrations: regs,
		Exporter:      exporter,
		Notifier:      inbox,
		Logger:        logger,
		Prom:          prom,
	})
	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}

	router := apphttp.NewRouter(apphttp.Deps{
		Env:           "test",
		ServiceName:   "courseadmin-test",
		Log:           logger,
		Prom:          prom,
		Gatherer:      reg,
		Courses:       courses,
		Registrations: regs,
		Stats:         handlers.NewStatsHandler(courses, regs, statsCache, logger),
		StatsCache:    statsCache,
		Reports:       handlers.NewReportsHandler(regs, exporter, logger),
		ReportJobs:    handlers.NewReportJobsHandler(queue, logger),
		Dashboard:     handlers.NewDashboardHandler(ctrl, inbox, statsCache),
		Readiness: map[string]handlers.ReadinessCheck{
			"stores": func(context.Context) error { return nil },
		},
	})

	return testApp{
		router:   router,
		courses:  courses,
		regs:     regs,
		exporter: exporter,
		inbox:    inbox,
		log:      logger,
		prom:     prom,
	}
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
