package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/courseadmin/internal/domain/registration"
	"github.com/gin-gonic/gin"
)

type RegistrationLister interface {
	List(ctx context.Context) ([]registration.Registration, error)
}

type RegistrationsHandler struct {
	repo RegistrationLister
	log  *slog.Logger
}

func NewRegistrationsHandler(repo RegistrationLister, log *slog.Logger) *RegistrationsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RegistrationsHandler{repo: repo, log: log}
}

// GET /registrations
func (h *RegistrationsHandler) ListRegistrations(ctx *gin.Context) {
	regs, err := h.repo.List(ctx.Request.Context())
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list registrations failed", "err", err)
		RespondInternal(ctx, "Could not list registrations")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": regs,
		"count": len(regs),
	})
}
