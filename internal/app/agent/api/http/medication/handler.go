package medication

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	domain "medtracker/internal/domain/medication"
	"medtracker/internal/i18n"
)

// Service - доступ агента к кэшу лекарств.
type Service interface {
	ListMedications(ctx context.Context) ([]domain.Medication, error)
}

type Handler struct {
	service    Service
	loc        *i18n.Locale
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(service Service, loc *i18n.Locale, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		loc:        loc,
		log:        log,
		middleware: mws,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	meds, err := h.service.ListMedications(ctx)
	if err != nil {
		h.log.Error("failed to read medication cache", "error", err)
		return nil, huma.Error500InternalServerError("failed to read medication cache")
	}

	now := h.now()
	views := make([]medicationView, 0, len(meds))
	for _, m := range meds {
		if input.Type != "" && m.PeriodicityType != input.Type {
			continue
		}
		views = append(views, toView(m, h.loc, now))
	}

	return &listOutput{
		Body: listResponse{
			Medications: views,
			Count:       len(views),
		},
	}, nil
}
