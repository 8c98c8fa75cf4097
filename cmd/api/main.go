package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/courseadmin/internal/cache"
	"github.com/geocoder89/courseadmin/internal/config"
	"github.com/geocoder89/courseadmin/internal/dashboard"
	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	httpx "github.com/geocoder89/courseadmin/internal/http"
	"github.com/geocoder89/courseadmin/internal/http/handlers"
	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/notifications"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/geocoder89/courseadmin/internal/queue/redisclient"
	"github.com/geocoder89/courseadmin/internal/queue/redisqueue"
	"github.com/geocoder89/courseadmin/internal/queue/worker"
	"github.com/geocoder89/courseadmin/internal/repo/memory"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTelServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed, continuing without export", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// stores
	storeOpts := memory.Options{Latency: cfg.StoreLatency, Prom: prom}
	var (
		courseSeed []course.Course
		regSeed    []registration.Registration
	)
	if cfg.SeedData {
		courseSeed = course.Seed()
		regSeed = registration.Seed()
	}
	courses := memory.NewCourseStore(storeOpts, courseSeed...)
	regs := memory.NewRegistrationStore(storeOpts, regSeed...)
	defer courses.Close()
	defer regs.Close()

	csvFormat, err := report.ParseCSVFormat(cfg.CSVFormat)
	if err != nil {
		log.Warn("unknown CSV_FORMAT, using legacy", "value", cfg.CSVFormat)
		csvFormat = report.FormatLegacy
	}
	exporter := report.NewExporter(report.MatchLocale(cfg.ReportLocale), cfg.Location(), csvFormat)

	statsCache := cache.New(cfg.StatsCacheTTL)
	inbox := notifications.NewInbox(50)
	notifier := notifications.Fanout{notifications.NewLogNotifier(log), inbox}

	readiness := map[string]handlers.ReadinessCheck{}

	var (
		reportQueue  handlers.ReportJobsQueue
		workerStatus gin.HandlerFunc
		w            *worker.Worker
	)
	if cfg.RedisEnabled() {
		rc, err := redisclient.New(redisclient.Config{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			ClientName: cfg.OTelServiceName,
		})
		if err != nil {
			log.Error("redis config invalid", "err", err)
			os.Exit(1)
		}
		defer rc.Close()

		readiness["redis"] = rc.Ping
		notifier = append(notifier, notifications.NewProtectedNotifier(
			notifications.NewRedisNotifier(rc.Raw(), cfg.NotifyChannel),
			notifications.ProtectedNotifierConfig{},
		))

		q := redisqueue.New(rc.Raw(), redisqueue.Config{})
		reportQueue = q

		if cfg.WorkerInProcess {
			w = worker.New(worker.Config{
				Concurrency: cfg.WorkerConcurrency,
				JobTimeout:  30 * time.Second,
			}, q, jobs.NewExportRunner(regs, exporter), log, prom)
			workerStatus = w.StatusHandler()
			readiness["worker"] = func(context.Context) error {
				if !w.Ready() {
					return errors.New("worker not running")
				}
				return nil
			}
		}
	} else {
		log.Info("REDIS_ADDR not set, background report jobs disabled")
	}

	ctrl := dashboard.New(dashboard.Deps{
		Courses:       courses,
		Registrations: regs,
		Exporter:      exporter,
		Notifier:      notifier,
		Logger:        log,
		Prom:          prom,
	})

	// the first load takes STORE_LATENCY_MS; the dashboard reports loading meanwhile
	go func() {
		if err := ctrl.Mount(ctx); err != nil {
			log.Error("initial dashboard load failed", "err", err)
		}
	}()

	workerDone := make(chan struct{})
	if w != nil {
		go func() {
			defer close(workerDone)
			if err := w.Run(ctx); err != nil {
				log.Error("worker stopped with error", "err", err)
			}
		}()
	} else {
		close(workerDone)
	}

	// set up routers with the deps
	router := httpx.NewRouter(httpx.Deps{
		Env:            cfg.Env,
		ServiceName:    cfg.OTelServiceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            log,
		Prom:           prom,
		Gatherer:       reg,
		Courses:        courses,
		Registrations:  regs,
		Stats:          handlers.NewStatsHandler(courses, regs, statsCache, log),
		StatsCache:     statsCache,
		Reports:        handlers.NewReportsHandler(regs, exporter, log),
		ReportJobs:     handlers.NewReportJobsHandler(reportQueue, log),
		Dashboard:      handlers.NewDashboardHandler(ctrl, inbox, statsCache),
		Readiness:      readiness,
		WorkerStatus:   workerStatus,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctxTimeOut := 10 * time.Second
		sctx, cancel := config.WithTimeout(ctxTimeOut)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
		<-workerDone
		if err := shutdownTracer(sctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
