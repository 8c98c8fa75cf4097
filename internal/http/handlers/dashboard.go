package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/geocoder89/courseadmin/internal/dashboard"
	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/notifications"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/geocoder89/courseadmin/internal/stats"
	"github.com/gin-gonic/gin"
)

type DashboardController interface {
	State() dashboard.State
	Summary() stats.Summary
	Refresh(ctx context.Context) error
	OpenCreate()
	OpenEditByID(id string) error
	OpenDeleteConfirmByID(id string) error
	CloseModal()
	Save(ctx context.Context, req course.SaveRequest) error
	ConfirmDelete(ctx context.Context) error
	ExportCSV(ctx context.Context) (report.Artifact, error)
	ExportPrint(ctx context.Context, locale report.Locale) (report.Artifact, error)
}

type NotificationFeed interface {
	Recent() []notifications.Notification
	Drain() []notifications.Notification
}

type OpenModalRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=create edit delete"`
	CourseID string `json:"courseId" binding:"required_unless=Kind create"`
}

// SaveCourseRequest is the tagged variant the UI submits: Kind decides
// whether Course is decoded as a create or an update.
type SaveCourseRequest struct {
	Kind   string          `json:"kind" binding:"required,oneof=create update"`
	Course json.RawMessage `json:"course" binding:"required"`
}

type DashboardHandler struct {
	ctrl  DashboardController
	feed  NotificationFeed
	stats Invalidator
}

func NewDashboardHandler(ctrl DashboardController, feed NotificationFeed, stats Invalidator) *DashboardHandler {
	return &DashboardHandler{ctrl: ctrl, feed: feed, stats: stats}
}

type dashboardView struct {
	State   dashboard.State `json:"state"`
	Summary stats.Summary   `json:"summary"`
}

func (h *DashboardHandler) view(ctx *gin.Context, status int) {
	ctx.JSON(status, dashboardView{
		State:   h.ctrl.State(),
		Summary: h.ctrl.Summary(),
	})
}

// GET /dashboard
func (h *DashboardHandler) Get(ctx *gin.Context) {
	h.view(ctx, http.StatusOK)
}

// POST /dashboard/refresh
func (h *DashboardHandler) Refresh(ctx *gin.Context) {
	if err := h.ctrl.Refresh(ctx.Request.Context()); err != nil {
		respondDashboardError(ctx, err)
		return
	}
	h.view(ctx, http.StatusOK)
}

// POST /dashboard/modal
func (h *DashboardHandler) OpenModal(ctx *gin.Context) {
	var req OpenModalRequest
	if !BindJSON(ctx, &req) {
		return
	}

	var err error
	switch req.Kind {
	case "create":
		h.ctrl.OpenCreate()
	case "edit":
		err = h.ctrl.OpenEditByID(req.CourseID)
	case "delete":
		err = h.ctrl.OpenDeleteConfirmByID(req.CourseID)
	}
	if err != nil {
		respondDashboardError(ctx, err)
		return
	}

	h.view(ctx, http.StatusOK)
}

// DELETE /dashboard/modal
func (h *DashboardHandler) CloseModal(ctx *gin.Context) {
	h.ctrl.CloseModal()
	h.view(ctx, http.StatusOK)
}

// POST /dashboard/save
func (h *DashboardHandler) Save(ctx *gin.Context) {
	var env SaveCourseRequest
	if !BindJSON(ctx, &env) {
		return
	}

	var req course.SaveRequest
	switch env.Kind {
	case "create":
		var create course.CreateCourseRequest
		if !BindJSONBody(ctx, env.Course, &create) {
			return
		}
		req = create
	case "update":
		var update course.UpdateCourseRequest
		if !BindJSONBody(ctx, env.Course, &update) {
			return
		}
		req = update
	}

	if err := h.ctrl.Save(ctx.Request.Context(), req); err != nil {
		respondDashboardError(ctx, err)
		return
	}
	h.invalidate()

	h.view(ctx, http.StatusOK)
}

// POST /dashboard/delete confirms the pending delete.
func (h *DashboardHandler) ConfirmDelete(ctx *gin.Context) {
	if err := h.ctrl.ConfirmDelete(ctx.Request.Context()); err != nil {
		respondDashboardError(ctx, err)
		return
	}
	h.invalidate()

	h.view(ctx, http.StatusOK)
}

// GET /dashboard/export.csv
func (h *DashboardHandler) ExportCSV(ctx *gin.Context) {
	a, err := h.ctrl.ExportCSV(ctx.Request.Context())
	if err != nil {
		respondDashboardError(ctx, err)
		return
	}
	RespondArtifact(ctx, a.Filename, a.ContentType, a.Body, true)
}

// GET /dashboard/print
func (h *DashboardHandler) ExportPrint(ctx *gin.Context) {
	a, err := h.ctrl.ExportPrint(ctx.Request.Context(), requestedLocale(ctx))
	if err != nil {
		respondDashboardError(ctx, err)
		return
	}
	RespondArtifact(ctx, a.Filename, a.ContentType, a.Body, false)
}

// GET /dashboard/notifications?drain=true
func (h *DashboardHandler) Notifications(ctx *gin.Context) {
	var items []notifications.Notification
	if ctx.Query("drain") == "true" {
		items = h.feed.Drain()
	} else {
		items = h.feed.Recent()
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *DashboardHandler) invalidate() {
	if h.stats != nil {
		h.stats.Clear()
	}
}

func respondDashboardError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrBusy):
		RespondConflict(ctx, "busy", "Another action is still in progress")
	case errors.Is(err, dashboard.ErrNoPendingDelete):
		RespondConflict(ctx, "no_pending_delete", "No course is awaiting delete confirmation")
	case errors.Is(err, dashboard.ErrNothingToExport):
		RespondError(ctx, http.StatusUnprocessableEntity, "nothing_to_export", "No registration data to export", nil)
	case errors.Is(err, course.ErrNotFound):
		RespondNotFound(ctx, "Course not found")
	case errors.Is(err, dashboard.ErrFetchFailed):
		RespondError(ctx, http.StatusBadGateway, "fetch_failed", "Failed to load dashboard data", nil)
	case errors.Is(err, dashboard.ErrSaveFailed):
		RespondError(ctx, http.StatusBadGateway, "save_failed", "Could not save course", nil)
	case errors.Is(err, dashboard.ErrDeleteFailed):
		RespondError(ctx, http.StatusBadGateway, "delete_failed", "Could not delete course", nil)
	default:
		RespondInternal(ctx, "Unexpected dashboard error")
	}
}
