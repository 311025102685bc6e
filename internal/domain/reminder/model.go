package reminder

import (
	"time"
)

const (
	// IdentifierPrefix - префикс идентификатора локального напоминания.
	IdentifierPrefix = "dose-"
	// ChannelID - канал уведомлений о приеме лекарств.
	ChannelID = "medicine-reminders"
	// PlatformAndroid - платформа, на которой нужен канал уведомлений.
	PlatformAndroid = "android"
)

// IdentifierFor возвращает идентификатор напоминания для дозы.
func IdentifierFor(doseID string) string {
	return IdentifierPrefix + doseID
}

// Payload - данные для перехода из уведомления к лекарству.
type Payload struct {
	DoseID       string `json:"doseId"`
	MedicationID string `json:"medicationId"`
	URL          string `json:"url"`
}

// Reminder - локальное уведомление о приеме, которое хранит сервис
// уведомлений устройства.
type Reminder struct {
	Identifier string    `json:"identifier"`
	FireAt     time.Time `json:"fire_at"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	ChannelID  string    `json:"channel_id"`
	Payload    Payload   `json:"payload"`
}

// ScheduledReminder - запись о напоминании, уже запланированном в сервисе
// уведомлений.
type ScheduledReminder struct {
	Identifier string    `json:"identifier"`
	FireAt     time.Time `json:"fire_at"`
}

// Permission - статус разрешения на уведомления.
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

// Importance - важность канала уведомлений.
type Importance string

const (
	ImportanceDefault Importance = "default"
	ImportanceHigh    Importance = "high"
	ImportanceMax     Importance = "max"
)

// Channel - настройки канала уведомлений (только android).
type Channel struct {
	ID               string
	Name             string
	Importance       Importance
	VibrationPattern []time.Duration
	LightColor       string
}

// Environment описывает устройство, на котором работает клиент.
type Environment struct {
	Platform       string
	PhysicalDevice bool
}

// Capability подтверждает, что разрешение получено и канал настроен.
// Создается Registrar один раз за время жизни процесса.
type Capability struct {
	ChannelID string
	Platform  string
	GrantedAt time.Time
}

// SyncError - ошибка по отдельному напоминанию в рамках прохода.
type SyncError struct {
	DoseID     string    `json:"dose_id,omitempty"`
	Identifier string    `json:"identifier"`
	Operation  string    `json:"operation"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	OpCancel   = "cancel"
	OpSchedule = "schedule"
)

// SyncResult - итог прохода синхронизации напоминаний.
type SyncResult struct {
	PassID       string        `json:"pass_id"`
	Fetched      int           `json:"fetched"`
	Cancelled    int           `json:"cancelled"`
	CancelFailed int           `json:"cancel_failed"`
	Scheduled    int           `json:"scheduled"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	Errors       []SyncError   `json:"errors"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration"`
}

// Complete сообщает, что все будущие дозы запланированы без ошибок.
func (r *SyncResult) Complete() bool {
	return r.Failed == 0 && r.CancelFailed == 0
}

func (r *SyncResult) finish(end time.Time) {
	r.EndTime = end
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// PassRecord - запись журнала о завершенном проходе.
type PassRecord struct {
	PassID       string    `json:"pass_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Fetched      int       `json:"fetched"`
	Cancelled    int       `json:"cancelled"`
	CancelFailed int       `json:"cancel_failed"`
	Scheduled    int       `json:"scheduled"`
	Skipped      int       `json:"skipped"`
	Failed       int       `json:"failed"`
	Error        string    `json:"error,omitempty"`
}

// Succeeded сообщает, что проход дошел до конца без ошибок.
func (p PassRecord) Succeeded() bool {
	return p.Error == "" && p.Failed == 0 && p.CancelFailed == 0
}
