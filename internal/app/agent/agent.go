// Package agent - фоновый процесс, который держит напоминания в актуальном
// состоянии и показывает их, когда подходит время приема.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"medtracker/internal/app/agent/api"
	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/reminder"
	"medtracker/internal/i18n"
)

const shutdownTimeout = 5 * time.Second

// Config - настройки агента.
type Config struct {
	Address          string
	DispatchInterval time.Duration
	SyncPeriod       time.Duration
	Locale           string
}

// Store - локальные напоминания и журнал проходов.
type Store interface {
	DueStore
	List(ctx context.Context) ([]reminder.Reminder, error)
	RecentPasses(ctx context.Context, limit int) ([]reminder.PassRecord, error)
}

// Syncer выполняет проход синхронизации напоминаний.
type Syncer interface {
	SyncReminders(ctx context.Context) (*reminder.SyncResult, error)
}

// MedicationCache - локальный кэш лекарств.
type MedicationCache interface {
	ListCached(ctx context.Context) ([]medication.Medication, error)
}

type Agent struct {
	config      Config
	store       Store
	syncer      Syncer
	medications MedicationCache
	dispatcher  *Dispatcher
	loc         *i18n.Locale
	log         *slog.Logger
}

func New(cfg Config, store Store, syncer Syncer, medications MedicationCache, deliverer Deliverer, log *slog.Logger) *Agent {
	log = log.With(slog.String("component", "agent"))
	return &Agent{
		config:      cfg,
		store:       store,
		syncer:      syncer,
		medications: medications,
		dispatcher:  NewDispatcher(store, deliverer, cfg.DispatchInterval, log),
		loc:         i18n.New(cfg.Locale),
		log:         log,
	}
}

// Run запускает HTTP API, доставку и периодическую синхронизацию.
// Возвращается после отмены ctx или при ошибке сервера.
func (a *Agent) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              a.config.Address,
		Handler:           api.New(a, a.loc, a.log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		a.log.Info("agent API listening", "address", a.config.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("agent API: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.dispatcher.Run(ctx)
	})
	g.Go(func() error {
		return a.syncLoop(ctx)
	})

	return g.Wait()
}

func (a *Agent) syncLoop(ctx context.Context) error {
	ticker := time.NewTicker(a.config.SyncPeriod)
	defer ticker.Stop()

	for {
		a.syncOnce(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *Agent) syncOnce(ctx context.Context) {
	result, err := a.syncer.SyncReminders(ctx)
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, reminder.ErrPermissionDenied), errors.Is(err, reminder.ErrNotPhysicalDevice):
		a.log.Warn("reminders are disabled on this device", "error", err)
	case errors.Is(err, reminder.ErrIncompleteFlush):
		a.log.Warn("previous reminders not flushed, retrying on next pass", "error", err)
	case err != nil:
		a.log.Error("periodic reminder sync failed", "error", err)
	case !result.Complete():
		a.log.Warn("periodic reminder sync finished with errors",
			"failed", result.Failed,
			"cancel_failed", result.CancelFailed,
		)
	}
}

// List, SyncReminders, RecentPasses и ListMedications обслуживают HTTP API
// агента.

func (a *Agent) List(ctx context.Context) ([]reminder.Reminder, error) {
	return a.store.List(ctx)
}

func (a *Agent) SyncReminders(ctx context.Context) (*reminder.SyncResult, error) {
	return a.syncer.SyncReminders(ctx)
}

func (a *Agent) RecentPasses(ctx context.Context, limit int) ([]reminder.PassRecord, error) {
	return a.store.RecentPasses(ctx, limit)
}

func (a *Agent) ListMedications(ctx context.Context) ([]medication.Medication, error) {
	return a.medications.ListCached(ctx)
}
