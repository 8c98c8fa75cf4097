package jobs

import (
	"context"
	"fmt"

	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"github.com/geocoder89/courseadmin/internal/report"
)

type RegistrationLister interface {
	List(ctx context.Context) ([]registration.Registration, error)
}

// ExportRunner renders report jobs from a fresh Registration Store snapshot.
type ExportRunner struct {
	regs     RegistrationLister
	exporter *report.Exporter
}

func NewExportRunner(regs RegistrationLister, exporter *report.Exporter) *ExportRunner {
	return &ExportRunner{regs: regs, exporter: exporter}
}

func (r *ExportRunner) Run(ctx context.Context, j Job) (report.Artifact, error) {
	payload, err := DecodePayload(j)
	if err != nil {
		return report.Artifact{}, err
	}
	if err := ValidatePayload(j.Type, payload); err != nil {
		return report.Artifact{}, err
	}

	regs, err := r.regs.List(ctx)
	if err != nil {
		return report.Artifact{}, fmt.Errorf("list registrations: %w", err)
	}

	switch p := payload.(type) {
	case ExportCSVPayload:
		if p.Format == "" {
			return r.exporter.CSV(ctx, regs)
		}
		format, err := report.ParseCSVFormat(p.Format)
		if err != nil {
			return report.Artifact{}, err
		}
		return report.CSV(regs, format)

	case ExportPrintPayload:
		var locale report.Locale
		if p.Locale != "" {
			locale = report.MatchLocale(p.Locale)
		}
		return r.exporter.Print(ctx, regs, locale)
	}

	return report.Artifact{}, ErrInvalidJobType
}
