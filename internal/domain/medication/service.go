package medication

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"medtracker/internal/domain/periodicity"
	"medtracker/internal/domain/reminder"
)

// ReminderSyncer пересобирает напоминания после изменения списка лекарств.
type ReminderSyncer interface {
	Sync(ctx context.Context) (*reminder.SyncResult, error)
}

type Servicer interface {
	Create(ctx context.Context, req CreateRequest) (*Medication, error)
	List(ctx context.Context) ([]Medication, error)
	ListCached(ctx context.Context) ([]Medication, error)
	AddStock(ctx context.Context, id string, quantity int) error
}

type Service struct {
	backend   Backend
	cache     Repository
	validator *FormValidator
	reminders ReminderSyncer
	log       *slog.Logger
}

// ServiceOption настраивает Service.
type ServiceOption func(*Service)

// WithReminderSync включает синхронизацию напоминаний после создания
// лекарства.
func WithReminderSync(syncer ReminderSyncer) ServiceOption {
	return func(s *Service) {
		s.reminders = syncer
	}
}

func NewService(backend Backend, cache Repository, validator *FormValidator, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		backend:   backend,
		cache:     cache,
		validator: validator,
		log:       log.With(slog.String("component", "medication_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create проверяет форму, сохраняет лекарство на сервере и в кэше, затем
// пересобирает напоминания. Ошибки кэша и синхронизации только логируются:
// лекарство уже создано.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Medication, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Dosage = strings.TrimSpace(req.Dosage)
	req.Periodicity = strings.TrimSpace(req.Periodicity)

	if err := s.validator.Validate(req); err != nil {
		s.log.Debug("medication form rejected", "error", err)
		return nil, err
	}

	// На сервер уходит каноническая форма: "8" или "08:00,14:00".
	p, err := periodicity.Parse(req.Periodicity, req.PeriodicityType)
	if err != nil {
		return nil, fmt.Errorf("normalize periodicity: %w", err)
	}
	req.Periodicity = p.String()

	med, err := s.backend.CreateMedication(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	if err := s.cache.Save(ctx, *med); err != nil {
		s.log.Warn("failed to cache created medication", "id", med.ID, "error", err)
	}

	if s.reminders != nil {
		result, err := s.reminders.Sync(ctx)
		switch {
		case err != nil:
			s.log.Warn("reminder sync after create failed", "error", err)
		case !result.Complete():
			s.log.Warn("reminder sync after create finished with errors", "failed", result.Failed)
		}
	}

	s.log.Info("medication created", "id", med.ID, "name", med.Name)
	return med, nil
}

// List загружает лекарства с сервера и обновляет кэш.
func (s *Service) List(ctx context.Context) ([]Medication, error) {
	meds, err := s.backend.ListMedications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	if err := s.cache.ReplaceAll(ctx, meds); err != nil {
		s.log.Warn("failed to refresh medication cache", "error", err)
	}

	return meds, nil
}

// ListCached возвращает лекарства из локального кэша без обращения к серверу.
func (s *Service) ListCached(ctx context.Context) ([]Medication, error) {
	meds, err := s.cache.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read medication cache: %w", err)
	}
	return meds, nil
}

// AddStock пополняет запас на сервере и сразу обновляет кэш, не дожидаясь
// повторной загрузки списка.
func (s *Service) AddStock(ctx context.Context, id string, quantity int) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if err := s.backend.AddStock(ctx, id, quantity); err != nil {
		return fmt.Errorf("failed to add stock: %w", err)
	}

	if err := s.cache.AddStock(ctx, id, quantity); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("failed to update cached stock", "id", id, "error", err)
	}

	s.log.Info("stock added", "id", id, "quantity", quantity)
	return nil
}
