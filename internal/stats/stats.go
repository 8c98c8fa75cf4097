// Package stats derives the dashboard's summary counts and chart series from
// store snapshots. Everything here is a pure function of its inputs.
package stats

import (
	"slices"
	"time"
	"unicode/utf16"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
)

const (
	labelMaxUnits = 20
	ellipsis      = "..."
)

type CourseParticipation struct {
	Label        string `json:"name"`
	Participants int    `json:"participants"`
}

type MonthlyCount struct {
	Month         string `json:"name"`
	Registrations int    `json:"registrations"`
}

type Summary struct {
	TotalRegistrations int                   `json:"totalRegistrations"`
	ActiveCourses      int                   `json:"activeCourseCount"`
	UpcomingCourses    int                   `json:"upcomingCourseCount"`
	ClosedCourses      int                   `json:"closedCourseCount"`
	PerCourse          []CourseParticipation `json:"perCourseParticipation"`
	Trend              []MonthlyCount        `json:"trend"`
}

func Compute(courses []course.Course, regs []registration.Registration) Summary {
	s := Summary{
		TotalRegistrations: len(regs),
		PerCourse:          Participation(courses),
		Trend:              PlaceholderTrend(),
	}

	for _, c := range courses {
		switch c.Status {
		case course.StatusActive:
			s.ActiveCourses++
		case course.StatusUpcoming:
			s.UpcomingCourses++
		case course.StatusClosed:
			s.ClosedCourses++
		}
	}

	return s
}

// Participation pairs each course's chart label with its participant count, in course order.
func Participation(courses []course.Course) []CourseParticipation {
	out := make([]CourseParticipation, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseParticipation{
			Label:        TruncateLabel(c.CourseName),
			Participants: c.CurrentParticipants,
		})
	}
	return out
}

// TruncateLabel cuts names longer than 20 UTF-16 code units and appends "...".
// Code units, not runes, so labels match what existing chart consumers produce.
func TruncateLabel(name string) string {
	units := utf16.Encode([]rune(name))
	if len(units) <= labelMaxUnits {
		return name
	}

	head := units[:labelMaxUnits]
	// never leave half of a surrogate pair behind
	if utf16.IsSurrogate(rune(head[len(head)-1])) && head[len(head)-1] < 0xDC00 {
		head = head[:len(head)-1]
	}

	return string(utf16.Decode(head)) + ellipsis
}

var placeholderTrend = []MonthlyCount{
	{Month: "ม.ค.", Registrations: 12},
	{Month: "ก.พ.", Registrations: 19},
	{Month: "มี.ค.", Registrations: 3},
	{Month: "เม.ย.", Registrations: 5},
	{Month: "พ.ค.", Registrations: 2},
	{Month: "มิ.ย.", Registrations: 3},
}

// PlaceholderTrend is the fixed illustrative series shown on the dashboard.
// It is not derived from registrations.
func PlaceholderTrend() []MonthlyCount {
	return slices.Clone(placeholderTrend)
}

// MonthlyRegistrations buckets registrations by the "2006-01" month of their
// registration date, oldest first. Records with unparseable dates are skipped.
func MonthlyRegistrations(regs []registration.Registration) []MonthlyCount {
	counts := map[string]int{}
	for _, r := range regs {
		d, err := time.Parse(time.DateOnly, r.RegistrationDate)
		if err != nil {
			continue
		}
		counts[d.Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	slices.Sort(months)

	out := make([]MonthlyCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyCount{Month: m, Registrations: counts[m]})
	}
	return out
}
