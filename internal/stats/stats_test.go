package stats

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/geocoder89/courseadmin/internal/domain/course"
	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"pgregory.net/rapid"
)

func TestCompute_Seed(t *testing.T) {
	s := Compute(course.Seed(), registration.Seed())

	if s.TotalRegistrations != 2 {
		t.Fatalf("total = %d, want 2", s.TotalRegistrations)
	}
	if s.ActiveCourses != 2 || s.UpcomingCourses != 1 || s.ClosedCourses != 1 {
		t.Fatalf("status counts = %d/%d/%d, want 2/1/1", s.ActiveCourses, s.UpcomingCourses, s.ClosedCourses)
	}

	wantPer := []CourseParticipation{
		{Label: "การบริหารจัดการโรงพย...", Participants: 35},
		{Label: "นโยบายสาธารณสุขแห่งช...", Participants: 28},
		{Label: "การจัดการทรัพยากรบุค...", Participants: 15},
		{Label: "การเงินและการคลังสำห...", Participants: 30},
	}
	if !reflect.DeepEqual(s.PerCourse, wantPer) {
		t.Fatalf("per course:\n got %+v\nwant %+v", s.PerCourse, wantPer)
	}

	if len(s.Trend) != 6 || s.Trend[1].Month != "ก.พ." || s.Trend[1].Registrations != 19 {
		t.Fatalf("unexpected trend %+v", s.Trend)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, nil)

	if s.TotalRegistrations != 0 || s.ActiveCourses != 0 || s.UpcomingCourses != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.PerCourse == nil || len(s.PerCourse) != 0 {
		t.Fatalf("expected empty, non-nil participation, got %#v", s.PerCourse)
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "Go", want: "Go"},
		{name: "exactly_20", in: "abcdefghijklmnopqrst", want: "abcdefghijklmnopqrst"},
		{name: "21", in: "abcdefghijklmnopqrstu", want: "abcdefghijklmnopqrst..."},
		{name: "thai_counts_code_points", in: "การเงินและการคลังสำหรับผู้บริหาร", want: "การเงินและการคลังสำห..."},
		{name: "astral_counts_two_units", in: strings.Repeat("a", 19) + "😀b", want: strings.Repeat("a", 19) + "..."},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateLabel(tt.in); got != tt.want {
				t.Fatalf("TruncateLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlaceholderTrend_IsACopy(t *testing.T) {
	a := PlaceholderTrend()
	a[0].Registrations = 999

	if PlaceholderTrend()[0].Registrations != 12 {
		t.Fatalf("placeholder series was mutated through a returned slice")
	}
}

func TestMonthlyRegistrations(t *testing.T) {
	regs := []registration.Registration{
		{RegistrationID: "1", RegistrationDate: "2025-02-03"},
		{RegistrationID: "2", RegistrationDate: "2025-01-15"},
		{RegistrationID: "3", RegistrationDate: "2025-01-20"},
		{RegistrationID: "4", RegistrationDate: "not a date"},
	}

	got := MonthlyRegistrations(regs)
	want := []MonthlyCount{
		{Month: "2025-01", Registrations: 2},
		{Month: "2025-02", Registrations: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCompute_TotalEqualsSnapshotLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 200).Draw(rt, "n")
		regs := make([]registration.Registration, n)
		for i := range regs {
			regs[i].RegistrationID = rapid.StringMatching(`R[0-9]{3}`).Draw(rt, "id")
		}

		if got := Compute(nil, regs).TotalRegistrations; got != n {
			rt.Fatalf("total = %d, want %d", got, n)
		}
	})
}

func TestTruncateLabel_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.String().Draw(rt, "name")
		got := TruncateLabel(name)

		if !utf8.ValidString(name) {
			return
		}
		if got == name {
			return
		}
		if !strings.HasSuffix(got, ellipsis) {
			rt.Fatalf("truncated label %q lacks the ellipsis", got)
		}
		if !strings.HasPrefix(name, strings.TrimSuffix(got, ellipsis)) {
			rt.Fatalf("truncated label %q is not a prefix of %q", got, name)
		}
	})
}
