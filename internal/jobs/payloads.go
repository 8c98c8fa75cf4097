package jobs

// ExportCSVPayload asks for the registration CSV. An empty Format uses the
// exporter's configured format.
type ExportCSVPayload struct {
	Format    string `json:"format,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ExportPrintPayload asks for the printable report. Locale is a BCP 47 tag.
type ExportPrintPayload struct {
	Locale    string `json:"locale,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
