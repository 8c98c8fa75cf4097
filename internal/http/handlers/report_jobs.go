package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/courseadmin/internal/actorctx"
	"github.com/geocoder89/courseadmin/internal/http/middlewares"
	"github.com/geocoder89/courseadmin/internal/jobs"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/geocoder89/courseadmin/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReportJobsQueue interface {
	Enqueue(ctx context.Context, j jobs.Job) error
	Get(ctx context.Context, id string) (jobs.Job, error)
	Result(ctx context.Context, id string) (report.Artifact, error)
}

type CreateReportJobRequest struct {
	Format    string `json:"format" binding:"required,oneof=csv print"`
	CSVFormat string `json:"csvFormat" binding:"omitempty,oneof=legacy rfc4180"`
	Locale    string `json:"locale" binding:"omitempty,max=35"`
}

type ReportJobsHandler struct {
	queue ReportJobsQueue
	log   *slog.Logger
}

// queue may be nil when Redis is not configured; every route then answers 503.
func NewReportJobsHandler(queue ReportJobsQueue, log *slog.Logger) *ReportJobsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReportJobsHandler{queue: queue, log: log}
}

func (h *ReportJobsHandler) available(ctx *gin.Context) bool {
	if h.queue == nil {
		RespondServiceUnavailable(ctx, "report_jobs_disabled", errNoQueue.Error())
		return false
	}
	return true
}

// POST /reports/jobs
func (h *ReportJobsHandler) CreateJob(ctx *gin.Context) {
	if !h.available(ctx) {
		return
	}

	var runAt time.Time
	if s := ctx.Query("runAt"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			RespondError(ctx, http.StatusBadRequest, "invalid_query", "runAt must be RFC 3339 Datetime", nil)
			return
		}

		// small guard: allow slight clock drift but reject clearly-in-the-past schedules
		if t.Before(time.Now().UTC().Add(-30 * time.Second)) {
			RespondError(ctx, http.StatusBadRequest, "invalid_query", "runAt must be now or in the future", nil)
			return
		}
		runAt = t.UTC()
	}

	var req CreateReportJobRequest
	if !BindJSON(ctx, &req) {
		return
	}

	jobType, err := jobs.ParseFormat(req.Format)
	if err != nil {
		RespondError(ctx, http.StatusBadRequest, "invalid_format", "format must be csv or print", nil)
		return
	}

	requestID, _ := actorctx.RequestIDFrom(ctx.Request.Context())

	var payload any
	switch jobType {
	case jobs.JobExportRegistrationsCSV:
		payload = jobs.ExportCSVPayload{Format: req.CSVFormat, RequestID: requestID}
	default:
		payload = jobs.ExportPrintPayload{Locale: req.Locale, RequestID: requestID}
	}

	if err := jobs.ValidatePayload(jobType, payload); err != nil {
		RespondError(ctx, http.StatusBadRequest, "invalid_payload", err.Error(), nil)
		return
	}

	raw, err := jobs.EncodePayload(jobType, payload)
	if err != nil {
		RespondError(ctx, http.StatusBadRequest, "invalid_payload", err.Error(), nil)
		return
	}

	j, err := jobs.NewJob(jobType, raw, runAt)
	if err != nil {
		RespondInternal(ctx, "Could not create job")
		return
	}

	if err := h.queue.Enqueue(ctx.Request.Context(), j); err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "enqueue report job failed", "err", err)
		RespondServiceUnavailable(ctx, "queue_unavailable", "Could not enqueue report job")
		return
	}

	ctx.Set(middlewares.CtxJobID, j.ID)
	ctx.Header("Location", "/reports/jobs/"+j.ID)
	ctx.JSON(http.StatusAccepted, j)
}

// GET /reports/jobs/:id
func (h *ReportJobsHandler) GetJob(ctx *gin.Context) {
	if !h.available(ctx) {
		return
	}

	id, ok := jobIDParam(ctx)
	if !ok {
		return
	}

	j, err := h.queue.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			RespondNotFound(ctx, "Job not found")
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "get report job failed", "job_id", id, "err", err)
		RespondInternal(ctx, "Could not fetch job")
		return
	}

	ctx.JSON(http.StatusOK, j)
}

// GET /reports/jobs/:id/download
func (h *ReportJobsHandler) Download(ctx *gin.Context) {
	if !h.available(ctx) {
		return
	}

	id, ok := jobIDParam(ctx)
	if !ok {
		return
	}

	a, err := h.queue.Result(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrResultNotReady):
			RespondConflict(ctx, "job_not_ready", "Report is not ready yet")
		case errors.Is(err, jobs.ErrJobNotFound):
			RespondNotFound(ctx, "Report not found")
		default:
			h.log.ErrorContext(ctx.Request.Context(), "get report result failed", "job_id", id, "err", err)
			RespondInternal(ctx, "Could not fetch report")
		}
		return
	}

	// CSV downloads; the print document opens in the browser
	attachment := a.ContentType == report.CSVContentType
	RespondArtifactWithETag(ctx, a.Filename, a.ContentType, a.Body, attachment)
}

func jobIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")
	if !utils.IsUUID(id) {
		RespondError(ctx, http.StatusBadRequest, "invalid_id", "job id must be a valid UUID", nil)
		return "", false
	}
	ctx.Set(middlewares.CtxJobID, id)
	return id, true
}
