// Package report turns a registration snapshot into the downloadable CSV
// artifact and the print-ready HTML report.
package report

import (
	"context"
	"time"

	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/geocoder89/courseadmin/internal/report")

type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Exporter binds the pure renderers to a clock, a time zone and defaults.
type Exporter struct {
	Now       func() time.Time
	Location  *time.Location
	Locale    Locale
	CSVFormat CSVFormat
}

func NewExporter(locale Locale, loc *time.Location, format CSVFormat) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	if format == "" {
		format = FormatLegacy
	}

	return &Exporter{
		Now:       time.Now,
		Location:  loc,
		Locale:    locale,
		CSVFormat: format,
	}
}

func (e *Exporter) CSV(ctx context.Context, regs []registration.Registration) (Artifact, error) {
	_, span := tracer.Start(ctx, "report.csv")
	defer span.End()
	span.SetAttributes(
		attribute.Int("registrations", len(regs)),
		attribute.String("format", string(e.CSVFormat)),
	)

	return CSV(regs, e.CSVFormat)
}

// Print renders the printable report; a zero locale falls back to the exporter default.
func (e *Exporter) Print(ctx context.Context, regs []registration.Registration, locale Locale) (Artifact, error) {
	_, span := tracer.Start(ctx, "report.print")
	defer span.End()

	if locale.Tag.IsRoot() {
		locale = e.Locale
	}
	span.SetAttributes(
		attribute.Int("registrations", len(regs)),
		attribute.String("locale", locale.String()),
	)

	return PrintDocument(regs, locale, e.Now().In(e.Location))
}
