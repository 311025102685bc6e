package reminder

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	domain "medtracker/internal/domain/reminder"
)

// Service - то, что агент умеет делать с напоминаниями.
type Service interface {
	List(ctx context.Context) ([]domain.Reminder, error)
	SyncReminders(ctx context.Context) (*domain.SyncResult, error)
	RecentPasses(ctx context.Context, limit int) ([]domain.PassRecord, error)
}

type Handler struct {
	service    Service
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service Service, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.syncOp(), h.sync)
	huma.Register(api, h.passesOp(), h.passes)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	reminders, err := h.service.List(ctx)
	if err != nil {
		h.log.Error("failed to list reminders", "error", err)
		return nil, huma.Error500InternalServerError("failed to list reminders")
	}

	views := make([]reminderView, 0, len(reminders))
	for _, r := range reminders {
		views = append(views, toView(r))
	}

	return &listOutput{
		Body: listResponse{
			Reminders: views,
			Count:     len(views),
		},
	}, nil
}

func (h *Handler) sync(ctx context.Context, _ *struct{}) (*syncOutput, error) {
	result, err := h.service.SyncReminders(ctx)
	switch {
	case err == nil:
		return &syncOutput{Body: result}, nil
	case errors.Is(err, domain.ErrPermissionDenied),
		errors.Is(err, domain.ErrNotPhysicalDevice),
		errors.Is(err, domain.ErrChannelProvisioning):
		return nil, huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrSourceFetch):
		return nil, huma.Error502BadGateway(err.Error())
	case errors.Is(err, domain.ErrIncompleteFlush):
		return nil, huma.Error503ServiceUnavailable(err.Error())
	case errors.Is(err, domain.ErrStepTimeout), errors.Is(err, context.DeadlineExceeded):
		return nil, huma.Error504GatewayTimeout(err.Error())
	default:
		h.log.Error("reminder sync failed", "error", err)
		return nil, huma.Error500InternalServerError("reminder sync failed")
	}
}

func (h *Handler) passes(ctx context.Context, input *passesInput) (*passesOutput, error) {
	passes, err := h.service.RecentPasses(ctx, input.Limit)
	if err != nil {
		h.log.Error("failed to read sync journal", "error", err)
		return nil, huma.Error500InternalServerError("failed to read sync journal")
	}
	if passes == nil {
		passes = []domain.PassRecord{}
	}

	return &passesOutput{
		Body: passesResponse{Passes: passes},
	}, nil
}
