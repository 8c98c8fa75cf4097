package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/gin-gonic/gin"
)

type CourseRepo interface {
	List(ctx context.Context) ([]course.Course, error)
	Get(ctx context.Context, id string) (course.Course, error)
	Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error)
	Update(ctx context.Context, c course.Course) (course.Course, error)
	Delete(ctx context.Context, id string) error
}

// Invalidator drops cached aggregates after a course mutation.
type Invalidator interface {
	Clear()
}

type CoursesHandler struct {
	repo  CourseRepo
	stats Invalidator
	log   *slog.Logger
}

func NewCoursesHandler(repo CourseRepo, stats Invalidator, log *slog.Logger) *CoursesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CoursesHandler{repo: repo, stats: stats, log: log}
}

func (h *CoursesHandler) invalidate() {
	if h.stats != nil {
		h.stats.Clear()
	}
}

// GET /courses
func (h *CoursesHandler) ListCourses(ctx *gin.Context) {
	courses, err := h.repo.List(ctx.Request.Context())
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list courses failed", "err", err)
		RespondInternal(ctx, "Could not list courses")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": courses,
		"count": len(courses),
	})
}

// GET /courses/:id
func (h *CoursesHandler) GetCourseByID(ctx *gin.Context) {
	c, err := h.repo.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "get course failed", "err", err)
		RespondInternal(ctx, "Could not fetch course")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, c)
}

// POST /courses
func (h *CoursesHandler) CreateCourse(ctx *gin.Context) {
	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	c, err := h.repo.Create(ctx.Request.Context(), req)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "create course failed", "err", err)
		RespondInternal(ctx, "Could not create course")
		return
	}
	h.invalidate()

	ctx.Header("Location", "/courses/"+c.CourseID)
	ctx.JSON(http.StatusCreated, c)
}

// PUT /courses/:id replaces the course wholesale.
func (h *CoursesHandler) UpdateCourse(ctx *gin.Context) {
	id := ctx.Param("id")

	// the URL is the source of truth for the identity
	req := course.UpdateCourseRequest{CourseID: id}
	if !BindJSON(ctx, &req) {
		return
	}
	req.CourseID = id

	c, err := h.repo.Update(ctx.Request.Context(), course.FromUpdateRequest(req))
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "update course failed", "course_id", id, "err", err)
		RespondInternal(ctx, "Could not update course")
		return
	}
	h.invalidate()

	ctx.JSON(http.StatusOK, c)
}

// DELETE /courses/:id is idempotent.
func (h *CoursesHandler) DeleteCourse(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := h.repo.Delete(ctx.Request.Context(), id); err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "delete course failed", "course_id", id, "err", err)
		RespondInternal(ctx, "Could not delete course")
		return
	}
	h.invalidate()

	ctx.Status(http.StatusNoContent)
}
