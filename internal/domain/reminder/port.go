package reminder

import (
	"context"

	"medtracker/internal/domain/dose"
)

// DoseSource отдает предстоящие дозы всех лекарств пользователя.
// Порядок значения не имеет.
type DoseSource interface {
	FetchUpcomingDoses(ctx context.Context) ([]dose.Occurrence, error)
}

// PermissionManager - разрешения сервиса уведомлений.
type PermissionManager interface {
	PermissionStatus(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
}

// ChannelConfigurer настраивает канал уведомлений.
type ChannelConfigurer interface {
	ConfigureChannel(ctx context.Context, ch Channel) error
}

// Sink - хранилище запланированных уведомлений.
type Sink interface {
	GetAllScheduled(ctx context.Context) ([]ScheduledReminder, error)
	Cancel(ctx context.Context, identifier string) error
	Schedule(ctx context.Context, r Reminder) error
	PermissionStatus(ctx context.Context) (Permission, error)
}

// NotificationService - полный набор операций сервиса уведомлений.
type NotificationService interface {
	Sink
	PermissionManager
	ChannelConfigurer
}

// Journal сохраняет итоги проходов синхронизации.
type Journal interface {
	RecordPass(ctx context.Context, result *SyncResult, passErr error) error
}

// PassLock не дает проходам разных процессов работать с общим хранилищем
// напоминаний одновременно. release снимает блокировку.
type PassLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}
