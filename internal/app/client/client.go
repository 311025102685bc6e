package client

import (
	"context"
	"fmt"
	"os"
	gosync "sync"

	"golang.org/x/exp/slog"

	"medtracker/internal/app/client/config"
	"medtracker/internal/domain/dose"
	"medtracker/internal/domain/medication"
	"medtracker/internal/domain/periodicity"
	"medtracker/internal/domain/reminder"
	"medtracker/internal/domain/user"
	"medtracker/internal/i18n"
	"medtracker/internal/infrastructure/storage/sqlite"
)

// App связывает локальное хранилище, клиент сервера и доменные сервисы.
type App struct {
	config *config.Config
	log    *slog.Logger
	loc    *i18n.Locale

	storage       *sqlite.Storage
	httpClient    *httpClient
	tokens        *FileTokenStore
	notifications *sqlite.NotificationStore
	journal       *sqlite.SyncJournal
	registrar     *reminder.Registrar

	users       *user.Service
	medications *medication.Service
	history     *dose.Service

	mu        gosync.Mutex
	scheduler *reminder.Scheduler
}

type options struct {
	prompter sqlite.Prompter
}

// Option настраивает App.
type Option func(*options)

// WithPrompter задает способ спросить у пользователя разрешение на
// уведомления. Без него неопределенный статус остается неопределенным.
func WithPrompter(p sqlite.Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

func New(cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := ensureDir(cfg.ConfigDir); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога данных: %w", err)
	}

	storage, err := sqlite.New(cfg.DataPath, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	deviceID, err := loadDeviceID(cfg.DeviceIDPath)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	app := &App{
		config:  cfg,
		log:     log,
		loc:     i18n.New(cfg.Locale),
		storage: storage,
		tokens:  NewFileTokenStore(cfg.TokenPath),
		journal: sqlite.NewSyncJournal(storage.DB()),
	}

	app.httpClient = NewHTTPClient(cfg, log)
	app.httpClient.SetDeviceID(deviceID)
	app.httpClient.SetTokenSource(app.currentToken)
	app.httpClient.OnUnauthorized(app.dropSession)

	var storeOpts []sqlite.NotificationStoreOption
	if o.prompter != nil {
		storeOpts = append(storeOpts, sqlite.WithPrompter(o.prompter))
	}
	app.notifications = sqlite.NewNotificationStore(storage.DB(), log, storeOpts...)
	app.registrar = reminder.NewRegistrar(app.notifications, app.notifications, reminder.Environment{
		Platform:       cfg.DevicePlatform,
		PhysicalDevice: cfg.DevicePhysical,
	}, app.loc, log)

	var periodicityOpts []periodicity.Option
	if cfg.StrictChronological {
		periodicityOpts = append(periodicityOpts, periodicity.WithChronologicalOrder())
	}

	app.users = user.NewService(app.httpClient, app.tokens, user.NewRequestValidator(), log)
	app.medications = medication.NewService(
		app.httpClient,
		sqlite.NewMedicationRepository(storage.DB(), log),
		medication.NewFormValidator(periodicity.NewValidator(periodicityOpts...)),
		log,
		medication.WithReminderSync(reminderSyncer{app: app}),
	)
	app.history = dose.NewService(app.httpClient, log)

	log.Debug("Клиент инициализирован",
		"server", cfg.ServerAddress,
		"data", cfg.DataPath,
		"device_id", deviceID,
	)

	return app, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Locale() *i18n.Locale {
	return a.loc
}

func (a *App) Users() *user.Service {
	return a.users
}

func (a *App) Medications() *medication.Service {
	return a.medications
}

func (a *App) History() *dose.Service {
	return a.history
}

// Notifications - локальный сервис уведомлений.
func (a *App) Notifications() *sqlite.NotificationStore {
	return a.notifications
}

func (a *App) Journal() *sqlite.SyncJournal {
	return a.journal
}

// RegisterNotifications получает разрешение и настраивает канал.
func (a *App) RegisterNotifications(ctx context.Context) (*reminder.Capability, error) {
	return a.registrar.Register(ctx)
}

// Scheduler возвращает планировщик, при первом вызове регистрируя
// уведомления. Неудачная регистрация не запоминается.
func (a *App) Scheduler(ctx context.Context) (*reminder.Scheduler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler != nil {
		return a.scheduler, nil
	}

	capability, err := a.registrar.Register(ctx)
	if err != nil {
		return nil, err
	}

	cfg := reminder.Config{
		StepTimeout:    a.config.StepTimeout,
		DeepLinkScheme: a.config.DeepLinkScheme,
		Locale:         a.config.Locale,
	}
	scheduler, err := reminder.NewScheduler(capability, a.notifications, a.httpClient, a.log, cfg,
		reminder.WithJournal(a.journal),
		reminder.WithPassLock(sqlite.NewSyncLock(a.storage.DB(), a.log)),
	)
	if err != nil {
		return nil, err
	}

	a.scheduler = scheduler
	return scheduler, nil
}

// SyncReminders пересобирает локальные напоминания по предстоящим дозам.
func (a *App) SyncReminders(ctx context.Context) (*reminder.SyncResult, error) {
	scheduler, err := a.Scheduler(ctx)
	if err != nil {
		return nil, err
	}
	return scheduler.Sync(ctx)
}

func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) currentToken() string {
	token, err := a.tokens.Load()
	if err != nil {
		a.log.Warn("Не удалось прочитать токен", "error", err)
		return ""
	}
	return token
}

// dropSession вызывается при 401: токен больше не действителен.
func (a *App) dropSession() {
	if err := a.tokens.Clear(); err != nil {
		a.log.Warn("Не удалось удалить токен", "error", err)
		return
	}
	a.log.Info("Сессия истекла, токен удален")
}

type reminderSyncer struct {
	app *App
}

func (s reminderSyncer) Sync(ctx context.Context) (*reminder.SyncResult, error) {
	return s.app.SyncReminders(ctx)
}

// ensureDir создает каталог данных клиента.
func ensureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
