package course

import (
	"errors"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusUpcoming Status = "upcoming"
	StatusClosed   Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUpcoming, StatusClosed:
		return true
	default:
		return false
	}
}

// Dates are ISO 8601 calendar dates ("2025-03-15") kept as strings; the
// ordering of start/end pairs is not checked anywhere.
type Course struct {
	CourseID            string `json:"courseId"`
	CourseName          string `json:"courseName"`
	CourseGen           string `json:"courseGen"`
	Description         string `json:"description"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	RegistrationStart   string `json:"registrationStart"`
	RegistrationEnd     string `json:"registrationEnd"`
	MaxParticipants     int    `json:"maxParticipants"`
	CurrentParticipants int    `json:"currentParticipants"`
	Location            string `json:"location"`
	Instructor          string `json:"instructor"`
	Status              Status `json:"status"`
}

var ErrNotFound = errors.New("course not found")

// SaveRequest is either a CreateCourseRequest or an UpdateCourseRequest.
// The caller decides which one it is sending.
type SaveRequest interface {
	isSaveRequest()
}

type CreateCourseRequest struct {
	CourseName        string `json:"courseName" binding:"required,max=200"`
	CourseGen         string `json:"courseGen" binding:"omitempty,max=80"`
	Description       string `json:"description" binding:"omitempty,max=2000"`
	StartDate         string `json:"startDate" binding:"required,isodate"`
	EndDate           string `json:"endDate" binding:"required,isodate"`
	RegistrationStart string `json:"registrationStart" binding:"required,isodate"`
	RegistrationEnd   string `json:"registrationEnd" binding:"required,isodate"`
	MaxParticipants   int    `json:"maxParticipants" binding:"required,min=1,max=100000"`
	Location          string `json:"location" binding:"omitempty,max=200"`
	Instructor        string `json:"instructor" binding:"omitempty,max=200"`
	Status            Status `json:"status" binding:"required,coursestatus"`
}

// a full replacement of a stored course; only the identity is kept.
type UpdateCourseRequest struct {
	CourseID            string `json:"courseId" binding:"required"`
	CourseName          string `json:"courseName" binding:"required,max=200"`
	CourseGen           string `json:"courseGen" binding:"omitempty,max=80"`
	Description         string `json:"description" binding:"omitempty,max=2000"`
	StartDate           string `json:"startDate" binding:"required,isodate"`
	EndDate             string `json:"endDate" binding:"required,isodate"`
	RegistrationStart   string `json:"registrationStart" binding:"required,isodate"`
	RegistrationEnd     string `json:"registrationEnd" binding:"required,isodate"`
	MaxParticipants     int    `json:"maxParticipants" binding:"required,min=1,max=100000"`
	CurrentParticipants int    `json:"currentParticipants" binding:"min=0,ltefield=MaxParticipants"`
	Location            string `json:"location" binding:"omitempty,max=200"`
	Instructor          string `json:"instructor" binding:"omitempty,max=200"`
	Status              Status `json:"status" binding:"required,coursestatus"`
}

func (CreateCourseRequest) isSaveRequest() {}
func (UpdateCourseRequest) isSaveRequest() {}
