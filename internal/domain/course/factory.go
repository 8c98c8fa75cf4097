package course

import (
	"github.com/google/uuid"
)

// NewFromCreateRequest mints the identity and starts the course with no participants.
func NewFromCreateRequest(req CreateCourseRequest) Course {
	return Course{
		CourseID:            uuid.NewString(),
		CourseName:          req.CourseName,
		CourseGen:           req.CourseGen,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		RegistrationStart:   req.RegistrationStart,
		RegistrationEnd:     req.RegistrationEnd,
		MaxParticipants:     req.MaxParticipants,
		CurrentParticipants: 0,
		Location:            req.Location,
		Instructor:          req.Instructor,
		Status:              req.Status,
	}
}

func FromUpdateRequest(req UpdateCourseRequest) Course {
	return Course{
		CourseID:            req.CourseID,
		CourseName:          req.CourseName,
		CourseGen:           req.CourseGen,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		RegistrationStart:   req.RegistrationStart,
		RegistrationEnd:     req.RegistrationEnd,
		MaxParticipants:     req.MaxParticipants,
		CurrentParticipants: req.CurrentParticipants,
		Location:            req.Location,
		Instructor:          req.Instructor,
		Status:              req.Status,
	}
}

// EditRequest prefills an update with the stored course, as the edit modal does.
func EditRequest(c Course) UpdateCourseRequest {
	return UpdateCourseRequest{
		CourseID:            c.CourseID,
		CourseName:          c.CourseName,
		CourseGen:           c.CourseGen,
		Description:         c.Description,
		StartDate:           c.StartDate,
		EndDate:             c.EndDate,
		RegistrationStart:   c.RegistrationStart,
		RegistrationEnd:     c.RegistrationEnd,
		MaxParticipants:     c.MaxParticipants,
		CurrentParticipants: c.CurrentParticipants,
		Location:            c.Location,
		Instructor:          c.Instructor,
		Status:              c.Status,
	}
}
