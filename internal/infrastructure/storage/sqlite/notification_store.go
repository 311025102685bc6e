package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/exp/slog"

	"medtracker/internal/domain/reminder"
)

var _ reminder.NotificationService = (*NotificationStore)(nil)

const permissionKey = "permission"

// Prompter спрашивает у пользователя разрешение на уведомления.
type Prompter func(ctx context.Context) (bool, error)

// NotificationStore - хранилище запланированных уведомлений устройства.
// Напоминания пишет планировщик, доставляет и удаляет агент.
type NotificationStore struct {
	db     *sqlx.DB
	log    *slog.Logger
	prompt Prompter
	now    func() time.Time
}

type NotificationStoreOption func(*NotificationStore)

// WithPrompter задает способ спросить разрешение у пользователя.
func WithPrompter(p Prompter) NotificationStoreOption {
	return func(s *NotificationStore) {
		s.prompt = p
	}
}

func NewNotificationStore(db *sqlx.DB, log *slog.Logger, opts ...NotificationStoreOption) *NotificationStore {
	s := &NotificationStore{
		db:  db,
		log: log.With(slog.String("component", "notification_store")),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type reminderRow struct {
	Identifier   string `db:"identifier"`
	FireAt       int64  `db:"fire_at"`
	Title        string `db:"title"`
	Body         string `db:"body"`
	ChannelID    string `db:"channel_id"`
	DoseID       string `db:"dose_id"`
	MedicationID string `db:"medication_id"`
	URL          string `db:"url"`
	CreatedAt    int64  `db:"created_at"`
}

func (r reminderRow) toDomain() reminder.Reminder {
	return reminder.Reminder{
		Identifier: r.Identifier,
		FireAt:     fromMillis(r.FireAt),
		Title:      r.Title,
		Body:       r.Body,
		ChannelID:  r.ChannelID,
		Payload: reminder.Payload{
			DoseID:       r.DoseID,
			MedicationID: r.MedicationID,
			URL:          r.URL,
		},
	}
}

// PermissionStatus возвращает сохраненное решение пользователя.
func (s *NotificationStore) PermissionStatus(ctx context.Context) (reminder.Permission, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM notification_settings WHERE key = ?`, permissionKey)
	if errors.Is(err, sql.ErrNoRows) {
		return reminder.PermissionUndetermined, nil
	}
	if err != nil {
		return "", fmt.Errorf("read permission: %w", err)
	}
	return reminder.Permission(value), nil
}

// RequestPermission спрашивает пользователя, если решение еще не принято.
// Отказ запоминается: повторно пользователя не спрашивают.
func (s *NotificationStore) RequestPermission(ctx context.Context) (reminder.Permission, error) {
	current, err := s.PermissionStatus(ctx)
	if err != nil {
		return "", err
	}
	if current != reminder.PermissionUndetermined || s.prompt == nil {
		return current, nil
	}

	allowed, err := s.prompt(ctx)
	if err != nil {
		return "", fmt.Errorf("prompt for permission: %w", err)
	}

	status := reminder.PermissionDenied
	if allowed {
		status = reminder.PermissionGranted
	}
	if err := s.SetPermission(ctx, status); err != nil {
		return "", err
	}
	return status, nil
}

// SetPermission сохраняет решение пользователя.
func (s *NotificationStore) SetPermission(ctx context.Context, p reminder.Permission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, permissionKey, string(p))
	if err != nil {
		return fmt.Errorf("save permission: %w", err)
	}
	s.log.Info("notification permission updated", "permission", p)
	return nil
}

type channelRow struct {
	ID               string `db:"id"`
	Name             string `db:"name"`
	Importance       string `db:"importance"`
	VibrationPattern string `db:"vibration_pattern"`
	LightColor       string `db:"light_color"`
	UpdatedAt        int64  `db:"updated_at"`
}

func (s *NotificationStore) ConfigureChannel(ctx context.Context, ch reminder.Channel) error {
	pattern := make([]string, 0, len(ch.VibrationPattern))
	for _, d := range ch.VibrationPattern {
		pattern = append(pattern, strconv.FormatInt(d.Milliseconds(), 10))
	}

	row := channelRow{
		ID:               ch.ID,
		Name:             ch.Name,
		Importance:       string(ch.Importance),
		VibrationPattern: strings.Join(pattern, ","),
		LightColor:       ch.LightColor,
		UpdatedAt:        toMillis(s.now()),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO notification_channels (id, name, importance, vibration_pattern, light_color, updated_at)
		VALUES (:id, :name, :importance, :vibration_pattern, :light_color, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			importance = excluded.importance,
			vibration_pattern = excluded.vibration_pattern,
			light_color = excluded.light_color,
			updated_at = excluded.updated_at
	`, row)
	if err != nil {
		return fmt.Errorf("configure channel %s: %w", ch.ID, err)
	}
	return nil
}

// Channel возвращает настройки канала или nil, если канал не настроен.
func (s *NotificationStore) Channel(ctx context.Context, id string) (*reminder.Channel, error) {
	var row channelRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, importance, vibration_pattern, light_color, updated_at
		FROM notification_channels WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read channel %s: %w", id, err)
	}

	ch := &reminder.Channel{
		ID:         row.ID,
		Name:       row.Name,
		Importance: reminder.Importance(row.Importance),
		LightColor: row.LightColor,
	}
	if row.VibrationPattern != "" {
		for _, part := range strings.Split(row.VibrationPattern, ",") {
			ms, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse vibration pattern: %w", err)
			}
			ch.VibrationPattern = append(ch.VibrationPattern, time.Duration(ms)*time.Millisecond)
		}
	}
	return ch, nil
}

func (s *NotificationStore) GetAllScheduled(ctx context.Context) ([]reminder.ScheduledReminder, error) {
	var rows []reminderRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT identifier, fire_at FROM scheduled_reminders`); err != nil {
		return nil, fmt.Errorf("list scheduled reminders: %w", err)
	}

	out := make([]reminder.ScheduledReminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, reminder.ScheduledReminder{
			Identifier: row.Identifier,
			FireAt:     fromMillis(row.FireAt),
		})
	}
	return out, nil
}

// Cancel удаляет напоминание. Отсутствующее напоминание не является ошибкой.
func (s *NotificationStore) Cancel(ctx context.Context, identifier string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_reminders WHERE identifier = ?`, identifier); err != nil {
		return fmt.Errorf("cancel reminder %s: %w", identifier, err)
	}
	return nil
}

// Schedule сохраняет напоминание, заменяя напоминание с тем же идентификатором.
func (s *NotificationStore) Schedule(ctx context.Context, r reminder.Reminder) error {
	row := reminderRow{
		Identifier:   r.Identifier,
		FireAt:       toMillis(r.FireAt),
		Title:        r.Title,
		Body:         r.Body,
		ChannelID:    r.ChannelID,
		DoseID:       r.Payload.DoseID,
		MedicationID: r.Payload.MedicationID,
		URL:          r.Payload.URL,
		CreatedAt:    toMillis(s.now()),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO scheduled_reminders
			(identifier, fire_at, title, body, channel_id, dose_id, medication_id, url, created_at)
		VALUES
			(:identifier, :fire_at, :title, :body, :channel_id, :dose_id, :medication_id, :url, :created_at)
	`, row)
	if err != nil {
		return fmt.Errorf("schedule reminder %s: %w", r.Identifier, err)
	}
	return nil
}

const selectReminders = `
	SELECT identifier, fire_at, title, body, channel_id, dose_id, medication_id, url, created_at
	FROM scheduled_reminders
`

// List возвращает все запланированные напоминания по времени срабатывания.
func (s *NotificationStore) List(ctx context.Context) ([]reminder.Reminder, error) {
	return s.selectReminders(ctx, selectReminders+` ORDER BY fire_at, identifier`)
}

// Due возвращает напоминания, время которых наступило к моменту now.
func (s *NotificationStore) Due(ctx context.Context, now time.Time) ([]reminder.Reminder, error) {
	return s.selectReminders(ctx, selectReminders+` WHERE fire_at <= ? ORDER BY fire_at, identifier`, toMillis(now))
}

func (s *NotificationStore) selectReminders(ctx context.Context, query string, args ...any) ([]reminder.Reminder, error) {
	var rows []reminderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select reminders: %w", err)
	}

	out := make([]reminder.Reminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
