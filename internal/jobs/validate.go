package jobs

import (
	"fmt"

	"github.com/geocoder89/courseadmin/internal/report"
	"golang.org/x/text/language"
)

// ValidatePayload checks a decoded payload before it is enqueued or run.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	switch t {
	case JobExportRegistrationsCSV:
		var p ExportCSVPayload
		switch v := payload.(type) {
		case ExportCSVPayload:
			p = v
		case *ExportCSVPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if p.Format == "" {
			return nil
		}
		if _, err := report.ParseCSVFormat(p.Format); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidJobPayload, err)
		}
		return nil

	case JobExportRegistrationsPrint:
		var p ExportPrintPayload
		switch v := payload.(type) {
		case ExportPrintPayload:
			p = v
		case *ExportPrintPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if p.Locale == "" {
			return nil
		}
		if _, err := language.Parse(p.Locale); err != nil {
			return fmt.Errorf("%w: locale %q", ErrInvalidJobPayload, p.Locale)
		}
		return nil
	}

	return ErrInvalidJobType
}
