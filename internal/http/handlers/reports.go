package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/courseadmin/internal/report"
	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	regs     RegistrationLister
	exporter *report.Exporter
	log      *slog.Logger
}

func NewReportsHandler(regs RegistrationLister, exporter *report.Exporter, log *slog.Logger) *ReportsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReportsHandler{regs: regs, exporter: exporter, log: log}
}

// GET /reports/registrations.csv?format=legacy|rfc4180
func (h *ReportsHandler) DownloadCSV(ctx *gin.Context) {
	format := h.exporter.CSVFormat
	if q := ctx.Query("format"); q != "" {
		f, err := report.ParseCSVFormat(q)
		if err != nil {
			RespondError(ctx, http.StatusBadRequest, "invalid_query", "format must be legacy or rfc4180", nil)
			return
		}
		format = f
	}

	regs, err := h.regs.List(ctx.Request.Context())
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list registrations failed", "err", err)
		RespondInternal(ctx, "Could not load registrations")
		return
	}

	a, err := report.CSV(regs, format)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "render csv failed", "err", err)
		RespondInternal(ctx, "Could not render CSV")
		return
	}

	RespondArtifactWithETag(ctx, a.Filename, a.ContentType, a.Body, true)
}

// GET /reports/registrations/print?locale=th-TH
func (h *ReportsHandler) PrintDocument(ctx *gin.Context) {
	regs, err := h.regs.List(ctx.Request.Context())
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list registrations failed", "err", err)
		RespondInternal(ctx, "Could not load registrations")
		return
	}

	a, err := h.exporter.Print(ctx.Request.Context(), regs, requestedLocale(ctx))
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "render print document failed", "err", err)
		RespondInternal(ctx, "Could not render report")
		return
	}

	RespondArtifact(ctx, a.Filename, a.ContentType, a.Body, false)
}

// requestedLocale prefers ?locale= over Accept-Language. With neither, the
// zero Locale lets the exporter use its configured default.
func requestedLocale(ctx *gin.Context) report.Locale {
	q := strings.TrimSpace(ctx.Query("locale"))
	accept := strings.TrimSpace(ctx.GetHeader("Accept-Language"))
	if q == "" && accept == "" {
		return report.Locale{}
	}
	if q != "" {
		return report.MatchLocale(q)
	}
	return report.MatchLocale(accept)
}

var errNoQueue = errors.New("report jobs require redis")
