package dashboard

import (
	"slices"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
)

type ModalKind string

const (
	ModalNone             ModalKind = "none"
	ModalEditingCourse    ModalKind = "editing_course"
	ModalConfirmingDelete ModalKind = "confirming_delete"
)

// Modal is the single dialog the dashboard may show. Course is nil when
// editing a new course and always set when confirming a delete.
type Modal struct {
	Kind   ModalKind      `json:"kind"`
	Course *course.Course `json:"course,omitempty"`
}

type State struct {
	Courses       []course.Course             `json:"courses"`
	Registrations []registration.Registration `json:"registrations"`
	Loading       bool                        `json:"loading"`
	Modal         Modal                       `json:"modal"`
	// a mutation is in flight; the UI disables its save/delete controls
	Busy bool `json:"busy"`
}

func (s State) clone() State {
	out := s
	out.Courses = slices.Clone(s.Courses)
	out.Registrations = slices.Clone(s.Registrations)
	if s.Modal.Course != nil {
		c := *s.Modal.Course
		out.Modal.Course = &c
	}
	if out.Courses == nil {
		out.Courses = []course.Course{}
	}
	if out.Registrations == nil {
		out.Registrations = []registration.Registration{}
	}
	return out
}

func editing(c *course.Course) Modal {
	if c == nil {
		return Modal{Kind: ModalEditingCourse}
	}
	cp := *c
	return Modal{Kind: ModalEditingCourse, Course: &cp}
}

func confirmingDelete(c course.Course) Modal {
	return Modal{Kind: ModalConfirmingDelete, Course: &c}
}

var noModal = Modal{Kind: ModalNone}
