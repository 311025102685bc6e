package periodicity

import (
	"strconv"
	"strings"

	"medtracker/internal/i18n"
)

// FormatInterval возвращает подпись для интервала. Определена для любых
// целых, включая значения вне диапазона 1-24.
func FormatInterval(loc *i18n.Locale, hours int) string {
	switch hours {
	case 24:
		return loc.Sprintf("once daily")
	case 12:
		return loc.Sprintf("twice daily")
	case 8:
		return loc.Sprintf("3x daily")
	case 6:
		return loc.Sprintf("4x daily")
	}
	return loc.Sprintf("every %sh", strconv.Itoa(hours))
}

// FormatFixedTimes возвращает подпись для списка времен. Порядок сохраняется
// как есть.
func FormatFixedTimes(loc *i18n.Locale, times []TimeOfDay) string {
	if len(times) >= 4 {
		return loc.Sprintf("%sx daily", strconv.Itoa(len(times)))
	}

	parts := make([]string, len(times))
	for i, t := range times {
		parts[i] = t.String()
	}
	return loc.Sprintf("at %s", strings.Join(parts, ", "))
}

// Label возвращает подпись для уже разобранной периодичности.
func (p Periodicity) Label(loc *i18n.Locale) string {
	switch {
	case p.IsInterval():
		return FormatInterval(loc, p.Hours)
	case p.IsFixedTimes():
		return FormatFixedTimes(loc, p.Times)
	}
	return ""
}

// Describe разбирает сырые данные записи и возвращает подпись для списка.
// Если строку разобрать не удалось, возвращается она сама.
func Describe(loc *i18n.Locale, raw string, t Type) string {
	p, err := Parse(raw, t)
	if err != nil {
		return raw
	}
	return p.Label(loc)
}
