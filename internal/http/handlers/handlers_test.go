package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"github.com/geocoder89/courseadmin/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
	if err := handlers.RegisterValidators(); err != nil {
		panic(err)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake repository implementations of the handler interfaces

type fakeCourseRepo struct {
	listFn   func(ctx context.Context) ([]course.Course, error)
	getFn    func(ctx context.Context, id string) (course.Course, error)
	createFn func(ctx context.Context, req course.CreateCourseRequest) (course.Course, error)
	updateFn func(ctx context.Context, c course.Course) (course.Course, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]course.Course, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []course.Course{}, nil
}

func (f *fakeCourseRepo) Get(ctx context.Context, id string) (course.Course, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return course.Course{}, course.ErrNotFound
}

func (f *fakeCourseRepo) Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return course.NewFromCreateRequest(req), nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, c course.Course) (course.Course, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return c, nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeRegistrationRepo struct {
	listFn func(ctx context.Context) ([]registration.Registration, error)
}

func (f *fakeRegistrationRepo) List(ctx context.Context) ([]registration.Registration, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return registration.Seed(), nil
}

type countingInvalidator struct {
	clears int
}

func (c *countingInvalidator) Clear() { c.clears++ }

// small helper function which returns the gin engine to mount one handler per test
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doRequest(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validCourseBody = `{
	"courseName": "Data Governance",
	"courseGen": "1",
	"description": "intro",
	"startDate": "2025-09-01",
	"endDate": "2025-09-30",
	"registrationStart": "2025-08-01",
	"registrationEnd": "2025-08-25",
	"maxParticipants": 40,
	"location": "Room A",
	"instructor": "Dr. K",
	"status": "upcoming"
}`
