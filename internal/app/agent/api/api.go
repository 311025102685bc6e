// GET  /api/v1/health              # Состояние агента
// GET  /api/v1/reminders           # Запланированные напоминания
// POST /api/v1/reminders/sync      # Запустить проход синхронизации
// GET  /api/v1/reminders/passes    # Журнал проходов
// GET  /api/v1/medications         # Лекарства из локального кэша

package api

import (
	healthAPI "medtracker/internal/app/agent/api/http/health"
	medicationAPI "medtracker/internal/app/agent/api/http/medication"
	"medtracker/internal/app/agent/api/http/middleware"
	"medtracker/internal/app/agent/api/http/middleware/logger"
	"medtracker/internal/app/agent/api/http/middleware/loopback"
	reminderAPI "medtracker/internal/app/agent/api/http/reminder"
	"medtracker/internal/i18n"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// Service - все, что агент отдает через API.
type Service interface {
	reminderAPI.Service
	medicationAPI.Service
}

type Handlers struct {
	Health     *healthAPI.Handler
	Reminder   *reminderAPI.Handler
	Medication *medicationAPI.Handler
}

// New создает *chi.Mux со всеми операциями агента
func New(service Service, loc *i18n.Locale, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("MedTracker Agent API", healthAPI.Version)
	API := humachi.New(mux, config)

	h := handlers(service, loc, log)
	h.Health.SetupRoutes(API)
	h.Reminder.SetupRoutes(API)
	h.Medication.SetupRoutes(API)

	return mux
}

func handlers(service Service, loc *i18n.Locale, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	loopbackMW := loopback.New(log)
	chain := middleware.NewChain(loggerMW.Middleware())

	healthHandler := healthAPI.NewHandler(log, chain.For())
	local := chain.For(loopbackMW.Middleware())
	reminderHandler := reminderAPI.NewHandler(service, log, local)
	medicationHandler := medicationAPI.NewHandler(service, loc, log, local)

	return &Handlers{
		Health:     healthHandler,
		Reminder:   reminderHandler,
		Medication: medicationHandler,
	}
}
