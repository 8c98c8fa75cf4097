// Package dashboard is the admin dashboard's controller: it owns the view
// state, routes course mutations to the course store and reconciles the view
// by re-reading both stores after every successful mutation.
//
// The controller assumes a single logical client. Its methods are safe to
// call from several goroutines, but the stores themselves provide no
// transactional boundary between clients.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"github.com/geocoder89/courseadmin/internal/notifications"
	"github.com/geocoder89/courseadmin/internal/observability"
	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/geocoder89/courseadmin/internal/stats"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/geocoder89/courseadmin/internal/dashboard")

type CourseStore interface {
	List(ctx context.Context) ([]course.Course, error)
	Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error)
	Update(ctx context.Context, c course.Course) (course.Course, error)
	Delete(ctx context.Context, id string) error
}

type RegistrationStore interface {
	List(ctx context.Context) ([]registration.Registration, error)
}

type Deps struct {
	Courses       CourseStore
	Registrations RegistrationStore
	Exporter      *report.Exporter
	Notifier      notifications.Notifier
	Logger        *slog.Logger
	Prom          *observability.Prom
}

type Controller struct {
	courses  CourseStore
	regs     RegistrationStore
	exporter *report.Exporter
	notifier notifications.Notifier
	log      *slog.Logger
	prom     *observability.Prom
	now      func() time.Time

	mu    sync.Mutex
	state State
	// refreshes in flight; loading is derived from it
	refreshing int
	// issued and applied refresh sequence numbers, so an older refresh
	// finishing late never overwrites a newer snapshot
	issuedSeq  uint64
	appliedSeq uint64
}

func New(deps Deps) *Controller {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifications.NewLogNotifier(log)
	}
	exporter := deps.Exporter
	if exporter == nil {
		exporter = report.NewExporter(report.Thai, nil, report.FormatLegacy)
	}

	return &Controller{
		courses:  deps.Courses,
		regs:     deps.Registrations,
		exporter: exporter,
		notifier: notifier,
		log:      log,
		prom:     deps.Prom,
		now:      time.Now,
		state:    State{Modal: noModal},
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state.clone()
	s.Loading = c.refreshing > 0
	return s
}

// Summary aggregates the last fetched snapshots.
func (c *Controller) Summary() stats.Summary {
	c.mu.Lock()
	courses, regs := c.state.Courses, c.state.Registrations
	c.mu.Unlock()

	// snapshots are replaced, never mutated in place, so reading them unlocked is safe
	return stats.Compute(courses, regs)
}

// Mount is the fetch-on-mount entry point.
func (c *Controller) Mount(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh reads both stores concurrently. On failure the previous snapshots stay in place.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "dashboard.refresh")
	defer span.End()

	c.mu.Lock()
	c.refreshing++
	c.issuedSeq++
	seq := c.issuedSeq
	c.mu.Unlock()

	var (
		courses []course.Course
		regs    []registration.Registration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = c.courses.List(gctx)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		regs, err = c.regs.List(gctx)
		if err != nil {
			return fmt.Errorf("list registrations: %w", err)
		}
		return nil
	})
	err := g.Wait()

	c.mu.Lock()
	c.refreshing--
	if err == nil && seq > c.appliedSeq {
		c.state.Courses = courses
		c.state.Registrations = regs
		c.appliedSeq = seq
	}
	c.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		c.fail(ctx, span, "refresh", msgFetchFailed, err)
		return err
	}

	c.prom.ObserveAction("refresh", "ok")
	return nil
}

func (c *Controller) OpenCreate() {
	c.setModal(editing(nil))
}

func (c *Controller) OpenEdit(crs course.Course) {
	c.setModal(editing(&crs))
}

func (c *Controller) OpenDeleteConfirm(crs course.Course) {
	c.setModal(confirmingDelete(crs))
}

// CloseModal always succeeds and drops whatever the modal was about to do.
func (c *Controller) CloseModal() {
	c.setModal(noModal)
}

// OpenEditByID and OpenDeleteConfirmByID look the course up in the current
// snapshot, the way a click on a table row does.
func (c *Controller) OpenEditByID(id string) error {
	crs, err := c.inView(id)
	if err != nil {
		return err
	}
	c.OpenEdit(crs)
	return nil
}

func (c *Controller) OpenDeleteConfirmByID(id string) error {
	crs, err := c.inView(id)
	if err != nil {
		return err
	}
	c.OpenDeleteConfirm(crs)
	return nil
}

// Save routes a create or an update to the course store. On failure the
// modal stays open so the user can retry or cancel.
func (c *Controller) Save(ctx context.Context, req course.SaveRequest) error {
	ctx, span := tracer.Start(ctx, "dashboard.save")
	defer span.End()
	// once a write is sent it runs to completion and is reported as applied,
	// even when the caller stops waiting
	ctx = context.WithoutCancel(ctx)

	if !c.begin() {
		c.rejectBusy(ctx, "save")
		return ErrBusy
	}

	var (
		err     error
		success string
	)

	switch r := req.(type) {
	case course.CreateCourseRequest:
		_, err = c.courses.Create(ctx, r)
		success = msgCreated
	case course.UpdateCourseRequest:
		_, err = c.courses.Update(ctx, course.FromUpdateRequest(r))
		success = msgUpdated
	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedInput, req)
	}
	c.end()

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSaveFailed, err)
		c.fail(ctx, span, "save", msgSaveFailed, err)
		return err
	}

	c.CloseModal()
	// refresh failures notify on their own; the save itself went through
	_ = c.Refresh(ctx)
	c.succeed(ctx, "save", success)
	return nil
}

// ConfirmDelete deletes the course held by the confirmation modal. The modal
// is closed whatever the outcome.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "dashboard.confirm_delete")
	defer span.End()
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	modal := c.state.Modal
	c.mu.Unlock()

	if modal.Kind != ModalConfirmingDelete || modal.Course == nil {
		return ErrNoPendingDelete
	}

	if !c.begin() {
		c.rejectBusy(ctx, "delete")
		return ErrBusy
	}
	err := c.courses.Delete(ctx, modal.Course.CourseID)
	c.end()

	c.CloseModal()

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrDeleteFailed, err)
		c.fail(ctx, span, "delete", msgDeleteFailed, err)
		return err
	}

	_ = c.Refresh(ctx)
	c.succeed(ctx, "delete", msgDeleted)
	return nil
}

// ExportCSV renders the registrations currently in view.
func (c *Controller) ExportCSV(ctx context.Context) (report.Artifact, error) {
	ctx, span := tracer.Start(ctx, "dashboard.export_csv")
	defer span.End()

	regs := c.registrationsInView()
	if len(regs) == 0 {
		c.fail(ctx, span, "export_csv", msgNothingToCSV, ErrNothingToExport)
		return report.Artifact{}, ErrNothingToExport
	}

	a, err := c.exporter.CSV(ctx, regs)
	if err != nil {
		c.fail(ctx, span, "export_csv", msgExportFailed, err)
		return report.Artifact{}, err
	}

	c.succeed(ctx, "export_csv", msgExported)
	return a, nil
}

// ExportPrint renders the printable report of the registrations currently in
// view. A zero locale uses the exporter default.
func (c *Controller) ExportPrint(ctx context.Context, locale report.Locale) (report.Artifact, error) {
	ctx, span := tracer.Start(ctx, "dashboard.export_print")
	defer span.End()

	a, err := c.exporter.Print(ctx, c.registrationsInView(), locale)
	if err != nil {
		c.fail(ctx, span, "export_print", msgExportFailed, err)
		return report.Artifact{}, err
	}

	c.prom.ObserveAction("export_print", "ok")
	return a, nil
}

func (c *Controller) setModal(m Modal) {
	c.mu.Lock()
	c.state.Modal = m
	c.mu.Unlock()
}

func (c *Controller) inView(id string) (course.Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, crs := range c.state.Courses {
		if crs.CourseID == id {
			return crs, nil
		}
	}
	return course.Course{}, fmt.Errorf("%w: %s", course.ErrNotFound, id)
}

func (c *Controller) registrationsInView() []registration.Registration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Registrations
}

// begin claims the single mutation slot.
func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy {
		return false
	}
	c.state.Busy = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state.Busy = false
	c.mu.Unlock()
}

func (c *Controller) rejectBusy(ctx context.Context, action string) {
	c.prom.ObserveAction(action, "busy")
	c.notify(ctx, notifications.LevelError, action, msgBusy)
}

func (c *Controller) succeed(ctx context.Context, action, msg string) {
	c.prom.ObserveAction(action, "ok")
	c.notify(ctx, notifications.LevelSuccess, action, msg)
}

func (c *Controller) fail(ctx context.Context, span trace.Span, action, msg string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	c.log.ErrorContext(ctx, "dashboard action failed", "action", action, "err", err)
	c.prom.ObserveAction(action, "error")
	c.notify(ctx, notifications.LevelError, action, msg)
}

func (c *Controller) notify(ctx context.Context, level notifications.Level, action, msg string) {
	err := c.notifier.Notify(ctx, notifications.Notification{
		Level:   level,
		Action:  action,
		Message: msg,
		At:      c.now(),
	})
	if err != nil {
		c.log.WarnContext(ctx, "notification delivery failed", "action", action, "err", err)
	}
}
