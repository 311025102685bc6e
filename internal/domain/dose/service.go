package dose

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

// HistoryBackend - серверная часть, отдающая историю доз.
type HistoryBackend interface {
	ListScheduledDoses(ctx context.Context, filter HistoryFilter) ([]ScheduledDose, error)
}

// Service отдает историю приема.
type Service struct {
	backend HistoryBackend
	log     *slog.Logger
}

// NewService создает сервис истории.
func NewService(backend HistoryBackend, log *slog.Logger) *Service {
	return &Service{
		backend: backend,
		log:     log.With(slog.String("component", "dose_history")),
	}
}

// History возвращает страницу истории. Без фильтра по статусам
// запрашиваются принятые, отложенные и пропущенные дозы.
func (s *Service) History(ctx context.Context, filter HistoryFilter) ([]ScheduledDose, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Page < 0 {
		return nil, ErrInvalidPage
	}
	if len(filter.Statuses) == 0 {
		filter.Statuses = HistoryStatuses
	}

	doses, err := s.backend.ListScheduledDoses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled doses: %w", err)
	}

	s.log.Debug("history loaded", "page", filter.Page, "count", len(doses))
	return doses, nil
}
