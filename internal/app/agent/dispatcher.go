package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"medtracker/internal/domain/reminder"
)

// DueStore - хранилище напоминаний, из которого агент забирает наступившие.
type DueStore interface {
	Due(ctx context.Context, now time.Time) ([]reminder.Reminder, error)
	Cancel(ctx context.Context, identifier string) error
}

// Deliverer показывает напоминание пользователю.
type Deliverer interface {
	Deliver(ctx context.Context, r reminder.Reminder) error
}

// Dispatcher доставляет наступившие напоминания и удаляет их из хранилища.
// Напоминание, которое не удалось показать, остается до следующего тика.
type Dispatcher struct {
	store     DueStore
	deliverer Deliverer
	interval  time.Duration
	log       *slog.Logger
	now       func() time.Time
}

func NewDispatcher(store DueStore, deliverer Deliverer, interval time.Duration, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		deliverer: deliverer,
		interval:  interval,
		log:       log.With(slog.String("component", "reminder_dispatcher")),
		now:       time.Now,
	}
}

// Run проверяет хранилище каждые interval до отмены ctx.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("dispatcher started", "interval", d.interval)
	for {
		if _, err := d.DispatchOnce(ctx); err != nil {
			d.log.Error("dispatch failed", "error", err)
		}

		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// DispatchOnce доставляет все напоминания со временем срабатывания не позже
// текущего и возвращает число доставленных.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	due, err := d.store.Due(ctx, d.now())
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}

	delivered := 0
	for _, r := range due {
		if err := d.deliverer.Deliver(ctx, r); err != nil {
			d.log.Error("failed to deliver reminder", "identifier", r.Identifier, "error", err)
			continue
		}
		if err := d.store.Cancel(ctx, r.Identifier); err != nil {
			d.log.Error("failed to remove delivered reminder", "identifier", r.Identifier, "error", err)
			continue
		}
		delivered++
		d.log.Debug("reminder delivered", "identifier", r.Identifier, "fire_at", r.FireAt)
	}

	if delivered > 0 {
		d.log.Info("reminders delivered", "count", delivered)
	}
	return delivered, nil
}
