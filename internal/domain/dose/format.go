package dose

import (
	"time"

	"medtracker/internal/i18n"
)

// StatusLabel возвращает подпись статуса. Неизвестный статус показывается
// как ожидающий.
func StatusLabel(loc *i18n.Locale, s Status) string {
	switch s {
	case StatusTaken:
		return loc.Sprintf("Taken")
	case StatusSnoozed:
		return loc.Sprintf("Snoozed")
	case StatusMissed:
		return loc.Sprintf("Missed")
	default:
		return loc.Sprintf("Pending")
	}
}

// ScheduledTimeLabel возвращает подпись времени приема относительно now:
// "Today at 08:00", "Tomorrow at 08:00", "Yesterday at 08:00" или дату.
func ScheduledTimeLabel(loc *i18n.Locale, scheduledAt, now time.Time) string {
	at := scheduledAt.In(now.Location())
	clock := loc.Clock(at)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	diffDays := int(day.Sub(today).Hours() / 24)

	switch diffDays {
	case 0:
		return loc.Sprintf("Today at %s", clock)
	case 1:
		return loc.Sprintf("Tomorrow at %s", clock)
	case -1:
		return loc.Sprintf("Yesterday at %s", clock)
	}
	return loc.Sprintf("%s at %s", loc.Date(at), clock)
}

// UnitsLabel возвращает подпись дозировки: "Take 1 unit" или "Take 2 units".
func UnitsLabel(loc *i18n.Locale, dosage string) string {
	if dosage == "1" {
		return loc.Sprintf("Take %s unit", dosage)
	}
	return loc.Sprintf("Take %s units", dosage)
}
