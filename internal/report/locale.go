package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const invalidDate = "Invalid Date"

// Locale carries the date conventions and report labels for one language.
type Locale struct {
	Tag language.Tag

	shortMonths [12]string
	// years are shown in the Buddhist era (Gregorian + 543)
	buddhistEra bool
	// day/month/year rather than month/day/year
	dayFirst bool

	labels labels
}

type labels struct {
	DocumentTitle string
	Heading       string
	GeneratedAt   string
	Name          string
	Course        string
	Organization  string
	RegisteredOn  string
	Status        string
}

var Thai = Locale{
	Tag: language.Thai,
	shortMonths: [12]string{
		"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
		"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
	},
	buddhistEra: true,
	dayFirst:    true,
	labels: labels{
		DocumentTitle: "Course Registration Report",
		Heading:       "รายงานการลงทะเบียนหลักสูตร",
		GeneratedAt:   "วันที่ออกรายงาน",
		Name:          "ชื่อ-นามสกุล",
		Course:        "หลักสูตร",
		Organization:  "องค์กร",
		RegisteredOn:  "วันที่ลงทะเบียน",
		Status:        "สถานะ",
	},
}

var AmericanEnglish = Locale{
	Tag: language.AmericanEnglish,
	shortMonths: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	labels: labels{
		DocumentTitle: "Course Registration Report",
		Heading:       "Course Registration Report",
		GeneratedAt:   "Report date",
		Name:          "Name",
		Course:        "Course",
		Organization:  "Organization",
		RegisteredOn:  "Registration Date",
		Status:        "Status",
	},
}

var supported = []Locale{Thai, AmericanEnglish}

var matcher = language.NewMatcher([]language.Tag{Thai.Tag, AmericanEnglish.Tag})

// MatchLocale picks the supported locale closest to the given preferences.
// Each preference may be a BCP 47 tag or an Accept-Language header value.
// Thai is the fallback.
func MatchLocale(prefs ...string) Locale {
	var tags []language.Tag
	for _, p := range prefs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}

	if len(tags) == 0 {
		return Thai
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Thai
	}
	return supported[idx]
}

func (l Locale) String() string {
	return l.Tag.String()
}

func (l Locale) year(y int) int {
	if l.buddhistEra {
		return y + 543
	}
	return y
}

// NumericDate renders the locale's default short date: 16/10/2569 (th), 10/16/2026 (en-US).
func (l Locale) NumericDate(t time.Time) string {
	y, m, d := t.Date()
	if l.dayFirst {
		return fmt.Sprintf("%d/%d/%d", d, int(m), l.year(y))
	}
	return fmt.Sprintf("%d/%d/%d", int(m), d, l.year(y))
}

// MediumDate renders numeric day, abbreviated month and numeric year:
// "15 ม.ค. 2568" (th), "Jan 15, 2025" (en-US).
func (l Locale) MediumDate(t time.Time) string {
	y, m, d := t.Date()
	mon := l.shortMonths[m-1]
	if l.dayFirst {
		return fmt.Sprintf("%d %s %d", d, mon, l.year(y))
	}
	return fmt.Sprintf("%s %d, %d", mon, d, l.year(y))
}

// isoLayouts are tried in order. Timestamps keep the date of their own offset.
var isoLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// MediumDateString formats an ISO date or timestamp, or "Invalid Date" when it does not parse.
func (l Locale) MediumDateString(iso string) string {
	iso = strings.TrimSpace(iso)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return l.MediumDate(t)
		}
	}
	return invalidDate
}
