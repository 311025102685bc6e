// Package validity считает дни до окончания срока годности и подбирает
// подпись и уровень срочности для отображения.
package validity

import (
	"strconv"
	"time"

	"medtracker/internal/i18n"
)

const (
	UrgentDays  = 7
	WarningDays = 30
	// LowStockThreshold - остаток, при котором запас считается низким.
	LowStockThreshold = 5
)

// Severity - уровень срочности для оформления.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityUrgent
)

func (s Severity) String() string {
	switch s {
	case SeverityUrgent:
		return "urgent"
	case SeverityWarning:
		return "warning"
	default:
		return "normal"
	}
}

// DaysUntil возвращает разницу в календарных днях между now и validity.
// Обе даты приводятся к полуночи в часовом поясе now, поэтому неполный
// день округляется вверх.
func DaysUntil(validity, now time.Time) int {
	loc := now.Location()
	v := validity.In(loc)

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)

	return int(to.Sub(from).Hours() / 24)
}

// Label возвращает подпись срока годности.
func Label(loc *i18n.Locale, validity, now time.Time) string {
	days := DaysUntil(validity, now)

	switch {
	case days < 0:
		return loc.Sprintf("expired")
	case days == 0:
		return loc.Sprintf("expires today")
	case days == 1:
		return loc.Sprintf("expires tomorrow")
	case days <= WarningDays:
		return loc.Sprintf("expires in %s days", strconv.Itoa(days))
	}
	return loc.Date(validity.In(now.Location()))
}

// SeverityOf возвращает уровень срочности по тем же порогам, что и Label.
func SeverityOf(validity, now time.Time) Severity {
	days := DaysUntil(validity, now)

	switch {
	case days <= UrgentDays:
		return SeverityUrgent
	case days <= WarningDays:
		return SeverityWarning
	}
	return SeverityNormal
}

// IsLowStock сообщает, что известный остаток меньше порога.
// Неизвестный остаток (nil) низким не считается.
func IsLowStock(quantity *int) bool {
	return quantity != nil && *quantity < LowStockThreshold
}
