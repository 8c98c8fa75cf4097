package integration__test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/courseadmin/internal/domain/course"
)

func TestRouter_HealthAndMetrics(t *testing.T) {
	app := setupApp(t, nil)

	if w := do(t, app.router, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz got %d", w.Code)
	}
	if w := do(t, app.router, http.MethodGet, "/readyz", ""); w.Code != http.StatusOK {
		t.Fatalf("readyz got %d body=%s", w.Code, w.Body.String())
	}

	w := do(t, app.router, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("metrics got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}

	if w := do(t, app.router, http.MethodGet, "/workerz", ""); w.Code != http.StatusNotFound {
		t.Fatalf("workerz should not be mounted without a worker, got %d", w.Code)
	}
}

func TestRouter_RequestIDAndSecurityHeaders(t *testing.T) {
	app := setupApp(t, nil)

	w := do(t, app.router, http.MethodGet, "/courses", "")
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", w.Header().Get("X-Content-Type-Options"))
	}
}

func TestRouter_CourseCRUD_InvalidatesStats(t *testing.T) {
	app := setupApp(t, nil)

	var before struct {
		ActiveCourses int `json:"activeCourseCount"`
	}
	w := do(t, app.router, http.MethodGet, "/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats got %d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &before)

	body := `{
		"courseName": "Cloud Security",
		"startDate": "2025-10-01",
		"endDate": "2025-10-15",
		"registrationStart": "2025-09-01",
		"registrationEnd": "2025-09-20",
		"maxParticipants": 25,
		"status": "active"
	}`
	w = do(t, app.router, http.MethodPost, "/courses", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create got %d body=%s", w.Code, w.Body.String())
	}

	var created course.Course
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("parse create resp: %v", err)
	}
	if created.CourseID == "" || created.CurrentParticipants != 0 {
		t.Fatalf("unexpected created course: %+v", created)
	}

	var after struct {
		ActiveCourses int `json:"activeCourseCount"`
	}
	w = do(t, app.router, http.MethodGet, "/stats", "")
	_ = json.Unmarshal(w.Body.Bytes(), &after)
	if w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("stats cache should be cleared after a write, got %q", w.Header().Get("X-Cache"))
	}
	if after.ActiveCourses != before.ActiveCourses+1 {
		t.Fatalf("active courses %d -> %d", before.ActiveCourses, after.ActiveCourses)
	}

	if w := do(t, app.router, http.MethodDelete, "/courses/"+created.CourseID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete got %d", w.Code)
	}
	if w := do(t, app.router, http.MethodGet, "/courses/"+created.CourseID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete got %d", w.Code)
	}
}

func TestRouter_CreateRequiresJSON(t *testing.T) {
	app := setupApp(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader("courseName=Go"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "requestId") {
		t.Fatalf("middleware errors should carry the request id, got %s", w.Body.String())
	}
}

func TestRouter_Reports(t *testing.T) {
	app := setupApp(t, nil)

	w := do(t, app.router, http.MethodGet, "/reports/registrations.csv", "")
	if w.Code != http.StatusOK {
		t.Fatalf("csv got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "\uFEFF") {
		t.Fatalf("csv should start with a byte order mark")
	}

	w = do(t, app.router, http.MethodGet, "/reports/registrations/print", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<html") {
		t.Fatalf("print got %d", w.Code)
	}
}

func TestRouter_ReportJobsDisabledWithoutQueue(t *testing.T) {
	app := setupApp(t, nil)

	w := do(t, app.router, http.MethodPost, "/reports/jobs", `{"format":"csv"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRouter_DashboardFlow(t *testing.T) {
	app := setupApp(t, nil)

	w := do(t, app.router, http.MethodPost, "/dashboard/modal", `{"kind":"delete","courseId":"C004"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("open delete modal got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, app.router, http.MethodPost, "/dashboard/delete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("confirm delete got %d body=%s", w.Code, w.Body.String())
	}

	// REST and dashboard share the same store
	if w := do(t, app.router, http.MethodGet, "/courses/C004", ""); w.Code != http.StatusNotFound {
		t.Fatalf("course should be gone from the store, got %d", w.Code)
	}

	if len(app.inbox.Recent()) == 0 {
		t.Fatalf("expected a notification after delete")
	}
}
