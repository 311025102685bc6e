package periodicity

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinIntervalHours = 1
	MaxIntervalHours = 24
	MaxFixedTimes    = 6
)

// TimeOfDay - время суток без часового пояса (локальное время устройства).
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String возвращает время в виде HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes возвращает количество минут от полуночи.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before сообщает, что t раньше other в пределах суток.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Periodicity - правило повторения приема: либо интервал в часах,
// либо упорядоченный список фиксированных времен.
type Periodicity struct {
	Type  Type
	Hours int
	Times []TimeOfDay
}

// Interval создает периодичность с интервалом в hours часов.
func Interval(hours int) Periodicity {
	return Periodicity{Type: TypeInterval, Hours: hours}
}

// FixedTimes создает периодичность по фиксированным временам.
// Порядок и уникальность не проверяются - за это отвечает Validator.
func FixedTimes(times ...TimeOfDay) Periodicity {
	return Periodicity{Type: TypeFixedTimes, Times: append([]TimeOfDay(nil), times...)}
}

// IsInterval сообщает, что периодичность задана интервалом.
func (p Periodicity) IsInterval() bool {
	return p.Type == TypeInterval
}

// IsFixedTimes сообщает, что периодичность задана списком времен.
func (p Periodicity) IsFixedTimes() bool {
	return p.Type == TypeFixedTimes
}

// String возвращает каноническое строковое представление для передачи
// на сервер: "8" или "08:00,14:00".
// Пустая периодичность без типа дает пустую строку.
func (p Periodicity) String() string {
	switch {
	case p.IsInterval():
		return strconv.Itoa(p.Hours)
	case p.IsFixedTimes():
		parts := make([]string, len(p.Times))
		for i, t := range p.Times {
			parts[i] = t.String()
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// Equal сравнивает две периодичности по значению.
func (p Periodicity) Equal(other Periodicity) bool {
	if p.Type != other.Type {
		return false
	}
	if !p.IsFixedTimes() {
		return p.Hours == other.Hours
	}
	if len(p.Times) != len(other.Times) {
		return false
	}
	for i := range p.Times {
		if p.Times[i] != other.Times[i] {
			return false
		}
	}
	return true
}
