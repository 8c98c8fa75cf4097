package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/geocoder89/courseadmin/internal/domain/course"
)

// CourseStore owns the course records. Iteration order is insertion order.
type CourseStore struct {
	mu     sync.RWMutex
	items  []course.Course
	closed bool
	opts   Options
}

func NewCourseStore(opts Options, seed ...course.Course) *CourseStore {
	return &CourseStore{
		items: slices.Clone(seed),
		opts:  opts,
	}
}

func (s *CourseStore) List(ctx context.Context) ([]course.Course, error) {
	var out []course.Course

	err := observe(ctx, s.opts.Prom, "courses.list", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return ErrClosed
		}
		out = make([]course.Course, len(s.items))
		copy(out, s.items)
		s.mu.RUnlock()

		return settle(ctx, s.opts.Latency)
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *CourseStore) Get(ctx context.Context, id string) (course.Course, error) {
	var out course.Course

	err := observe(ctx, s.opts.Prom, "courses.get", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return ErrClosed
		}
		idx := s.indexOf(id)
		if idx >= 0 {
			out = s.items[idx]
		}
		s.mu.RUnlock()

		if idx < 0 {
			return course.ErrNotFound
		}
		return settle(ctx, s.opts.Latency)
	})

	return out, err
}

func (s *CourseStore) Create(ctx context.Context, req course.CreateCourseRequest) (course.Course, error) {
	var out course.Course

	err := observe(ctx, s.opts.Prom, "courses.create", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		c := course.NewFromCreateRequest(req)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		s.items = append(s.items, c)
		s.mu.Unlock()

		out = c
		return settle(ctx, s.opts.Latency)
	})
	if err != nil {
		return course.Course{}, err
	}

	return out, nil
}

// Update replaces the stored record wholesale. An unknown id leaves the store untouched.
func (s *CourseStore) Update(ctx context.Context, c course.Course) (course.Course, error) {
	err := observe(ctx, s.opts.Prom, "courses.update", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		idx := s.indexOf(c.CourseID)
		if idx >= 0 {
			s.items[idx] = c
		}
		s.mu.Unlock()

		if idx < 0 {
			return course.ErrNotFound
		}
		return settle(ctx, s.opts.Latency)
	})
	if err != nil {
		return course.Course{}, err
	}

	return c, nil
}

// Delete removes every record with the id. Deleting an unknown id is not an error.
func (s *CourseStore) Delete(ctx context.Context, id string) error {
	return observe(ctx, s.opts.Prom, "courses.delete", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		s.items = slices.DeleteFunc(s.items, func(c course.Course) bool {
			return c.CourseID == id
		})
		s.mu.Unlock()

		return settle(ctx, s.opts.Latency)
	})
}

// Close releases the records; every later call fails with ErrClosed.
func (s *CourseStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.items = nil
	s.mu.Unlock()

	return nil
}

// caller holds s.mu
func (s *CourseStore) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(c course.Course) bool {
		return c.CourseID == id
	})
}
