package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/geocoder89/courseadmin/internal/domain/registration"
)

const (
	CSVHeader      = "registrationId,courseName,firstName,lastName,organization,registrationDate,status"
	CSVFilename    = "registrations.csv"
	CSVContentType = "text/csv;charset=utf-8"

	byteOrderMark = "\uFEFF"
)

// CSVFormat versions the delimited artifact.
type CSVFormat string

const (
	// FormatLegacy wraps every value in double quotes without escaping
	// embedded quotes. Existing consumers depend on this exact output.
	FormatLegacy CSVFormat = "legacy"
	// FormatRFC4180 escapes quotes and delimiters correctly.
	FormatRFC4180 CSVFormat = "rfc4180"
)

var ErrUnknownCSVFormat = errors.New("unknown csv format")

func ParseCSVFormat(s string) (CSVFormat, error) {
	switch CSVFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatLegacy:
		return FormatLegacy, nil
	case FormatRFC4180:
		return FormatRFC4180, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCSVFormat, s)
	}
}

var csvColumns = []struct {
	name  string
	value func(registration.Registration) string
}{
	{"registrationId", func(r registration.Registration) string { return r.RegistrationID }},
	{"courseName", func(r registration.Registration) string { return r.CourseName }},
	{"firstName", func(r registration.Registration) string { return r.FirstName }},
	{"lastName", func(r registration.Registration) string { return r.LastName }},
	{"organization", func(r registration.Registration) string { return r.Organization }},
	{"registrationDate", func(r registration.Registration) string { return r.RegistrationDate }},
	{"status", func(r registration.Registration) string { return r.Status }},
}

// WriteCSV writes the BOM-prefixed artifact, one line per registration in snapshot order.
func WriteCSV(w io.Writer, regs []registration.Registration, format CSVFormat) error {
	if _, err := io.WriteString(w, byteOrderMark); err != nil {
		return err
	}

	switch format {
	case FormatLegacy, "":
		return writeLegacyCSV(w, regs)
	case FormatRFC4180:
		return writeRFC4180CSV(w, regs)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCSVFormat, format)
	}
}

// lines joined with "\n", no trailing newline
func writeLegacyCSV(w io.Writer, regs []registration.Registration) error {
	var b strings.Builder
	b.WriteString(CSVHeader)

	for _, r := range regs {
		b.WriteByte('\n')
		for i, col := range csvColumns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(col.value(r))
			b.WriteByte('"')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRFC4180CSV(w io.Writer, regs []registration.Registration) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(csvColumns))
	for i, col := range csvColumns {
		header[i] = col.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(csvColumns))
	for _, r := range regs {
		for i, col := range csvColumns {
			row[i] = col.value(r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV renders the artifact in memory.
func CSV(regs []registration.Registration, format CSVFormat) (Artifact, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, regs, format); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Filename:    CSVFilename,
		ContentType: CSVContentType,
		Body:        buf.Bytes(),
	}, nil
}
