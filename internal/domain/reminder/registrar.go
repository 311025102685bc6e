package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"medtracker/internal/i18n"
)

// DefaultChannel возвращает настройки канала напоминаний о приеме.
func DefaultChannel(loc *i18n.Locale) Channel {
	return Channel{
		ID:               ChannelID,
		Name:             loc.Sprintf("Medication reminders"),
		Importance:       ImportanceHigh,
		VibrationPattern: []time.Duration{0, 250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		LightColor:       "#FF231F7C",
	}
}

// Registrar получает разрешение на уведомления и настраивает канал.
// Успешная регистрация запоминается, повторные вызовы возвращают тот же
// Capability без обращения к сервису уведомлений.
type Registrar struct {
	permissions PermissionManager
	channels    ChannelConfigurer
	env         Environment
	loc         *i18n.Locale
	log         *slog.Logger
	now         func() time.Time

	mu         sync.Mutex
	capability *Capability
}

// NewRegistrar создает Registrar.
func NewRegistrar(permissions PermissionManager, channels ChannelConfigurer, env Environment, loc *i18n.Locale, log *slog.Logger) *Registrar {
	return &Registrar{
		permissions: permissions,
		channels:    channels,
		env:         env,
		loc:         loc,
		log:         log.With(slog.String("component", "reminder_registrar")),
		now:         time.Now,
	}
}

// Register проверяет устройство, запрашивает разрешение, если оно еще не
// выдано, и на android настраивает канал уведомлений.
func (r *Registrar) Register(ctx context.Context) (*Capability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capability != nil {
		return r.capability, nil
	}

	if !r.env.PhysicalDevice {
		r.log.Warn("notifications are unavailable on emulators")
		return nil, ErrNotPhysicalDevice
	}

	status, err := r.permissions.PermissionStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("read permission status: %w", err)
	}
	if status != PermissionGranted {
		status, err = r.permissions.RequestPermission(ctx)
		if err != nil {
			return nil, fmt.Errorf("request permission: %w", err)
		}
	}
	if status != PermissionGranted {
		r.log.Warn("notification permission denied", "status", status)
		return nil, ErrPermissionDenied
	}

	if r.env.Platform == PlatformAndroid {
		if err := r.channels.ConfigureChannel(ctx, DefaultChannel(r.loc)); err != nil {
			r.log.Error("failed to configure notification channel", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrChannelProvisioning, err)
		}
	}

	r.capability = &Capability{
		ChannelID: ChannelID,
		Platform:  r.env.Platform,
		GrantedAt: r.now(),
	}
	r.log.Info("notifications registered", "platform", r.env.Platform)

	return r.capability, nil
}

// Capability возвращает результат успешной регистрации или nil.
func (r *Registrar) Capability() *Capability {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capability
}
