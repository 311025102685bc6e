package periodicity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timeRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Parse разбирает строку периодичности в соответствии с типом.
//
// Пустой тип означает старую запись без типа: тип выводится через InferType.
// Диапазон интервала здесь не проверяется, это задача Validator.
func Parse(raw string, t Type) (Periodicity, error) {
	if t.IsAbsent() {
		t = InferType(raw)
	}

	switch t {
	case TypeInterval:
		hours, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Periodicity{}, fmt.Errorf("parse interval %q: %w", raw, ErrInvalidNumber)
		}
		return Interval(hours), nil

	case TypeFixedTimes:
		tokens := SplitTimes(raw)
		times := make([]TimeOfDay, 0, len(tokens))
		for _, token := range tokens {
			if token == "" {
				return Periodicity{}, fmt.Errorf("parse fixed times %q: %w", raw, ErrEmptyList)
			}
			tod, err := ParseTimeOfDay(token)
			if err != nil {
				return Periodicity{}, err
			}
			times = append(times, tod)
		}
		return FixedTimes(times...), nil
	}

	return Periodicity{}, fmt.Errorf("parse %q: %w", raw, t.Validate())
}

// InferType выводит тип периодичности для записей, сохраненных без типа:
// строка с ',' или ':' считается списком времен, иначе интервалом.
//
// Deprecated: используется только для отображения старых данных.
// Новые записи обязаны передавать тип явно.
func InferType(raw string) Type {
	if strings.ContainsAny(raw, ",:") {
		return TypeFixedTimes
	}
	return TypeInterval
}

// SplitTimes делит строку по ',' и обрезает пробелы у каждого элемента.
func SplitTimes(raw string) []string {
	tokens := strings.Split(raw, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	return tokens
}

// ParseTimeOfDay разбирает время в формате H:MM или HH:MM (24 часа).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timeRegex.MatchString(s) {
		return TimeOfDay{}, fmt.Errorf("parse time %q: %w", s, ErrBadFormat)
	}

	hh, mm, _ := strings.Cut(s, ":")
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}
