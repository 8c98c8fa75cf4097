package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/courseadmin/internal/http/handlers"
	"github.com/geocoder89/courseadmin/internal/http/middlewares"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

// Deps is everything the admin API serves. ReportJobs may be nil when Redis
// is not configured; WorkerStatus may be nil when no worker runs in-process.
type Deps struct {
	Env            string
	ServiceName    string
	AllowedOrigins []string

	Log      *slog.Logger
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	Courses       handlers.CourseRepo
	Registrations handlers.RegistrationLister
	Stats         *handlers.StatsHandler
	StatsCache    handlers.Invalidator
	Reports       *handlers.ReportsHandler
	ReportJobs    *handlers.ReportJobsHandler
	Dashboard     *handlers.DashboardHandler
	Readiness     map[string]handlers.ReadinessCheck
	WorkerStatus  gin.HandlerFunc
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		d.Log.Error("register validators failed", "err", err)
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(d.ServiceName))
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health
	h := handlers.NewHealthHandler(d.Readiness)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	if d.WorkerStatus != nil {
		r.GET("/workerz", d.WorkerStatus)
	}

	writeLimiter := middlewares.NewRateLimiter(30, time.Minute)
	limitWrites := writeLimiter.RateLimiterMiddleware(middlewares.KeyByIPAndRoute)
	requireJSON := middlewares.RequireJSON()

	courses := handlers.NewCoursesHandler(d.Courses, d.StatsCache, d.Log)
	r.GET("/courses", courses.ListCourses)
	r.GET("/courses/:id", courses.GetCourseByID)
	r.POST("/courses", limitWrites, requireJSON, courses.CreateCourse)
	r.PUT("/courses/:id", limitWrites, requireJSON, courses.UpdateCourse)
	r.DELETE("/courses/:id", limitWrites, courses.DeleteCourse)

	regs := handlers.NewRegistrationsHandler(d.Registrations, d.Log)
	r.GET("/registrations", regs.ListRegistrations)

	r.GET("/stats", d.Stats.GetStats)

	r.GET("/reports/registrations.csv", d.Reports.DownloadCSV)
	r.GET("/reports/registrations/print", d.Reports.PrintDocument)

	jobs := d.ReportJobs
	if jobs == nil {
		jobs = handlers.NewReportJobsHandler(nil, d.Log)
	}
	r.POST("/reports/jobs", limitWrites, requireJSON, jobs.CreateJob)
	r.GET("/reports/jobs/:id", jobs.GetJob)
	r.GET("/reports/jobs/:id/download", jobs.Download)

	dash := r.Group("/dashboard")
	{
		dash.GET("", d.Dashboard.Get)
		dash.POST("/refresh", d.Dashboard.Refresh)
		dash.POST("/modal", requireJSON, d.Dashboard.OpenModal)
		dash.DELETE("/modal", d.Dashboard.CloseModal)
		dash.POST("/save", limitWrites, requireJSON, d.Dashboard.Save)
		dash.POST("/delete", limitWrites, d.Dashboard.ConfirmDelete)
		dash.GET("/export.csv", d.Dashboard.ExportCSV)
		dash.GET("/print", d.Dashboard.ExportPrint)
		dash.GET("/notifications", d.Dashboard.Notifications)
	}

	return r
}
