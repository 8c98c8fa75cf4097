package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/courseadmin/internal/config"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/geocoder89/courseadmin/internal/queue/redisclient"
	"github.com/geocoder89/courseadmin/internal/queue/redisqueue"
	"github.com/geocoder89/courseadmin/internal/queue/worker"
	"github.com/geocoder89/courseadmin/internal/repo/memory"
	"github.com/geocoder89/courseadmin/internal/report"
	workerops "github.com/geocoder89/courseadmin/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// The standalone worker renders queued report jobs. Registrations are
// read-only seed data, so it renders the same reports the API would.
func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if !cfg.RedisEnabled() {
		log.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTelServiceName+"-worker", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed, continuing without export", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	rc, err := redisclient.New(redisclient.Config{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		ClientName: cfg.OTelServiceName + "-worker",
	})
	if err != nil {
		log.Error("redis config invalid", "err", err)
		os.Exit(1)
	}
	defer rc.Close()

	var regSeed []registration.Registration
	if cfg.SeedData {
		regSeed = registration.Seed()
	}
	regs := memory.NewRegistrationStore(memory.Options{}, regSeed...)
	defer regs.Close()

	csvFormat, err := report.ParseCSVFormat(cfg.CSVFormat)
	if err != nil {
		log.Warn("unknown CSV_FORMAT, using legacy", "value", cfg.CSVFormat)
		csvFormat = report.FormatLegacy
	}
	exporter := report.NewExporter(report.MatchLocale(cfg.ReportLocale), cfg.Location(), csvFormat)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	w := worker.New(worker.Config{
		Concurrency: cfg.WorkerConcurrency,
		JobTimeout:  30 * time.Second,
	}, redisqueue.New(rc.Raw(), redisqueue.Config{}), jobs.NewExportRunner(regs, exporter), log, prom)

	var shuttingDown atomic.Bool
	opsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WorkerHealthPort),
		Handler:           workerops.OpsHandler(rc, w, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), shuttingDown.Load),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := opsSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops server failed", "err", err)
		}
	}()

	log.Info("worker has started", "concurrency", cfg.WorkerConcurrency, "ops_port", cfg.WorkerHealthPort)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}
	shuttingDown.Store(true)

	sctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	_ = opsSrv.Shutdown(sctx)
	if err := shutdownTracer(sctx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("worker shutdown complete")
}
