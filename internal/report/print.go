package report

import (
	"bytes"
	"html/template"
	"io"
	"time"

	"github.com/geocoder89/courseadmin/internal/domain/registration"
)

const (
	PrintFilename    = "registrations-report.html"
	PrintContentType = "text/html; charset=utf-8"
)

// The document prints itself once loaded; the print pipeline only has to open it.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<title>{{.Labels.DocumentTitle}}</title>
<meta charset="UTF-8">
<link href="https://fonts.googleapis.com/css2?family=Kanit:wght@300;400;500;600&display=swap" rel="stylesheet">
<style>
body { font-family: 'Kanit', sans-serif; padding: 20px; }
h1 { color: #333; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
thead { background-color: #f2f2f2; }
@media print {
  body { -webkit-print-color-adjust: exact; }
}
</style>
</head>
<body>
<h1>{{.Labels.Heading}}</h1>
<p>{{.Labels.GeneratedAt}}: {{.GeneratedAt}}</p>
<table>
<thead>
<tr>
<th>{{.Labels.Name}}</th>
<th>{{.Labels.Course}}</th>
<th>{{.Labels.Organization}}</th>
<th>{{.Labels.RegisteredOn}}</th>
<th>{{.Labels.Status}}</th>
</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td>{{.Name}}</td>
<td>{{.Course}}</td>
<td>{{.Organization}}</td>
<td>{{.RegisteredOn}}</td>
<td>{{.Status}}</td>
</tr>
{{- end}}
</tbody>
</table>
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))

type printRow struct {
	Name         string
	Course       string
	Organization string
	RegisteredOn string
	Status       string
}

type printData struct {
	Lang        string
	Labels      labels
	GeneratedAt string
	Rows        []printRow
}

// WritePrintDocument renders the report with one row per registration in snapshot order.
// generatedAt should already be in the reader's time zone.
func WritePrintDocument(w io.Writer, regs []registration.Registration, locale Locale, generatedAt time.Time) error {
	data := printData{
		Lang:        locale.String(),
		Labels:      locale.labels,
		GeneratedAt: locale.NumericDate(generatedAt),
		Rows:        make([]printRow, 0, len(regs)),
	}

	for _, r := range regs {
		data.Rows = append(data.Rows, printRow{
			Name:         r.FullName(),
			Course:       r.CourseName,
			Organization: r.Organization,
			RegisteredOn: locale.MediumDateString(r.RegistrationDate),
			Status:       r.Status,
		})
	}

	return printTemplate.Execute(w, data)
}

func PrintDocument(regs []registration.Registration, locale Locale, generatedAt time.Time) (Artifact, error) {
	var buf bytes.Buffer
	if err := WritePrintDocument(&buf, regs, locale, generatedAt); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Filename:    PrintFilename,
		ContentType: PrintContentType,
		Body:        buf.Bytes(),
	}, nil
}
