package reminder

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/semaphore"

	"medtracker/internal/domain/dose"
	"medtracker/internal/i18n"
)

const (
	defaultStepTimeout    = 10 * time.Second
	defaultDeepLinkScheme = "myapp"
)

// Config - настройки планировщика напоминаний.
type Config struct {
	// StepTimeout ограничивает каждый внешний вызов прохода.
	StepTimeout time.Duration
	// DeepLinkScheme - схема ссылки на карточку лекарства.
	DeepLinkScheme string
	// Locale - язык текста уведомлений.
	Locale string
}

// Scheduler синхронизирует локальные напоминания с предстоящими дозами.
//
// Проходы выполняются строго по одному: новый запрос ждет завершения
// текущего прохода и затем выполняет свой полный проход. Между процессами
// проходы разделяет PassLock.
type Scheduler struct {
	capability *Capability
	sink       Sink
	source     DoseSource
	log        *slog.Logger
	loc        *i18n.Locale
	config     Config
	sem        *semaphore.Weighted
	steps      *steps
	lock       PassLock
	journal    Journal
	now        func() time.Time
}

// Option настраивает Scheduler.
type Option func(*Scheduler)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithJournal сохраняет итог каждого прохода.
func WithJournal(j Journal) Option {
	return func(s *Scheduler) {
		s.journal = j
	}
}

// WithPassLock задает блокировку прохода, общую для всех процессов,
// которые работают с тем же хранилищем напоминаний.
func WithPassLock(l PassLock) Option {
	return func(s *Scheduler) {
		s.lock = l
	}
}

// NewScheduler создает планировщик. Без capability планировать нечего:
// сначала нужно пройти Registrar.Register.
func NewScheduler(capability *Capability, sink Sink, source DoseSource, log *slog.Logger, cfg Config, opts ...Option) (*Scheduler, error) {
	if capability == nil {
		return nil, ErrNotRegistered
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = defaultStepTimeout
	}
	if cfg.DeepLinkScheme == "" {
		cfg.DeepLinkScheme = defaultDeepLinkScheme
	}

	s := &Scheduler{
		capability: capability,
		sink:       sink,
		source:     source,
		log:        log.With(slog.String("component", "reminder_scheduler")),
		loc:        i18n.New(cfg.Locale),
		config:     cfg,
		sem:        semaphore.NewWeighted(1),
		steps:      &steps{timeout: cfg.StepTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Sync выполняет один проход: проверка разрешения, загрузка доз,
// отмена всех запланированных напоминаний и планирование новых.
//
// Дозы загружаются до отмены: если источник недоступен, прежний набор
// напоминаний остается нетронутым. Если не удалось отменить хотя бы одно
// напоминание, проход прерывается до планирования. Ошибки планирования
// отдельных доз не прерывают проход и попадают в SyncResult.
func (s *Scheduler) Sync(ctx context.Context) (*SyncResult, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for running sync pass: %w", err)
	}
	release := func() { s.sem.Release(1) }

	if s.lock != nil {
		unlock, err := s.lock.Acquire(ctx)
		if err != nil {
			s.sem.Release(1)
			return nil, fmt.Errorf("%w: %w", ErrPassLock, err)
		}
		release = func() {
			unlock()
			s.sem.Release(1)
		}
	}

	result := &SyncResult{
		PassID:    uuid.NewString(),
		StartTime: s.now(),
		Errors:    []SyncError{},
	}
	log := s.log.With(slog.String("pass_id", result.PassID))
	log.Info("reminder sync started")

	err := s.pass(ctx, log, result)
	result.finish(s.now())

	if s.journal != nil {
		if jerr := s.journal.RecordPass(context.WithoutCancel(ctx), result, err); jerr != nil {
			log.Warn("failed to record sync pass", "error", jerr)
		}
	}

	s.releaseAfterSteps(log, release)
	return result, err
}

// releaseAfterSteps отпускает проход. Вызовы, брошенные по таймауту, должны
// завершиться до начала следующего прохода, поэтому в этом случае проход
// отпускается в фоне после них.
func (s *Scheduler) releaseAfterSteps(log *slog.Logger, release func()) {
	if s.steps.drained() {
		release()
		return
	}

	log.Warn("timed out steps are still running, next pass waits for them")
	go func() {
		s.steps.wait()
		release()
		log.Debug("timed out steps finished, sync pass released")
	}()
}

func (s *Scheduler) pass(ctx context.Context, log *slog.Logger, result *SyncResult) error {
	// 1. Разрешение
	permission, err := callStep(ctx, s.steps, s.sink.PermissionStatus)
	if err != nil {
		log.Error("failed to check notification permission", "error", err)
		return fmt.Errorf("check permission: %w", err)
	}
	if permission != PermissionGranted {
		log.Warn("notification permission not granted, nothing scheduled", "permission", permission)
		return ErrPermissionDenied
	}

	// 2. Предстоящие дозы
	occurrences, err := callStep(ctx, s.steps, s.source.FetchUpcomingDoses)
	if err != nil {
		log.Error("failed to fetch upcoming doses, keeping existing reminders", "error", err)
		return fmt.Errorf("%w: %w", ErrSourceFetch, err)
	}
	result.Fetched = len(occurrences)
	if len(occurrences) == 0 {
		log.Info("no upcoming doses")
	}

	// 3. Полная отмена
	scheduled, err := callStep(ctx, s.steps, s.sink.GetAllScheduled)
	if err != nil {
		log.Error("failed to list scheduled reminders", "error", err)
		return fmt.Errorf("%w: %w", ErrListScheduled, err)
	}
	if err := s.cancelAll(ctx, log, scheduled, result); err != nil {
		log.Error("previous reminders not flushed, nothing scheduled", "error", err)
		return err
	}

	// 4. Планирование
	for _, occ := range occurrences {
		s.scheduleOne(ctx, log, occ, result)
	}

	log.Info("reminder sync finished",
		"fetched", result.Fetched,
		"cancelled", result.Cancelled,
		"scheduled", result.Scheduled,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return nil
}

// cancelAll отменяет все запланированные напоминания. Ошибка означает, что
// сброс неполный и планировать поверх него нельзя.
func (s *Scheduler) cancelAll(ctx context.Context, log *slog.Logger, scheduled []ScheduledReminder, result *SyncResult) error {
	for _, sr := range scheduled {
		identifier := sr.Identifier
		err := runStep(ctx, s.steps, func(ctx context.Context) error {
			return s.sink.Cancel(ctx, identifier)
		})
		if err != nil {
			log.Error("failed to cancel reminder", "identifier", identifier, "error", err)
			result.CancelFailed++
			result.Errors = append(result.Errors, SyncError{
				Identifier: identifier,
				Operation:  OpCancel,
				Error:      err.Error(),
				Timestamp:  s.now(),
			})
			continue
		}
		result.Cancelled++
	}
	log.Debug("previous reminders cancelled", "count", result.Cancelled)

	if result.CancelFailed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrIncompleteFlush, result.CancelFailed, len(scheduled))
	}
	return nil
}

func (s *Scheduler) scheduleOne(ctx context.Context, log *slog.Logger, occ dose.Occurrence, result *SyncResult) {
	if !occ.ScheduledAt.After(s.now()) {
		log.Debug("dose is in the past, skipping",
			"dose_id", occ.ID,
			"medication", occ.MedicationName,
			"scheduled_at", occ.ScheduledAt,
		)
		result.Skipped++
		return
	}

	r := s.buildReminder(occ)
	err := runStep(ctx, s.steps, func(ctx context.Context) error {
		return s.sink.Schedule(ctx, r)
	})
	if err != nil {
		log.Error("failed to schedule reminder", "dose_id", occ.ID, "error", err)
		result.Failed++
		result.Errors = append(result.Errors, SyncError{
			DoseID:     occ.ID,
			Identifier: r.Identifier,
			Operation:  OpSchedule,
			Error:      err.Error(),
			Timestamp:  s.now(),
		})
		return
	}

	log.Debug("reminder scheduled", "identifier", r.Identifier, "fire_at", r.FireAt)
	result.Scheduled++
}

func (s *Scheduler) buildReminder(occ dose.Occurrence) Reminder {
	return Reminder{
		Identifier: IdentifierFor(occ.ID),
		FireAt:     occ.ScheduledAt,
		Title:      s.loc.Sprintf("Time for your medication!"),
		Body:       s.loc.Sprintf("Don't forget to take %s.", occ.MedicationName),
		ChannelID:  s.capability.ChannelID,
		Payload: Payload{
			DoseID:       occ.ID,
			MedicationID: occ.MedicationID,
			URL:          fmt.Sprintf("%s://medicine/%s", s.config.DeepLinkScheme, url.PathEscape(occ.MedicationID)),
		},
	}
}
