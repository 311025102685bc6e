package periodicity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Validator проверяет периодичность при вводе данных. При отображении
// валидация не выполняется.
type Validator struct {
	chronological bool
}

// Option настраивает Validator.
type Option func(*Validator)

// WithChronologicalOrder включает сравнение времен по значению вместо
// строкового сравнения. Тогда "9:00,10:00" проходит проверку порядка,
// а "10:00,9:00" нет.
func WithChronologicalOrder() Option {
	return func(v *Validator) {
		v.chronological = true
	}
}

// NewValidator создает валидатор. По умолчанию порядок проверяется
// строковым сравнением токенов, как это делали прежние версии клиента.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate проверяет строку периодичности указанного типа. Проверки идут в
// фиксированном порядке, возвращается только первая ошибка.
func (v *Validator) Validate(t Type, raw string) error {
	switch t {
	case TypeInterval:
		return v.validateInterval(raw)
	case TypeFixedTimes:
		return v.validateFixedTimes(raw)
	}
	return newValidationError(CodeUnknownType, "")
}

func (v *Validator) validateInterval(raw string) error {
	hours, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return newValidationError(CodeInvalidNumber, "")
	}

	if hours < MinIntervalHours || hours > MaxIntervalHours {
		return newValidationError(CodeOutOfRange, "")
	}

	return nil
}

func (v *Validator) validateFixedTimes(raw string) error {
	tokens := SplitTimes(raw)

	for _, token := range tokens {
		if token == "" {
			return newValidationError(CodeEmptyList, "")
		}
	}

	if len(tokens) > MaxFixedTimes {
		return newValidationError(CodeTooMany, "")
	}

	times := make([]TimeOfDay, len(tokens))
	for i, token := range tokens {
		tod, err := ParseTimeOfDay(token)
		if err != nil {
			return newValidationError(CodeBadFormat,
				fmt.Sprintf("%s: %q", ErrBadFormat, token))
		}
		times[i] = tod
	}

	seen := make(map[TimeOfDay]struct{}, len(times))
	for i, tod := range times {
		if _, ok := seen[tod]; ok {
			return newValidationError(CodeDuplicateTime,
				fmt.Sprintf("%s: %q", ErrDuplicateTime, tokens[i]))
		}
		seen[tod] = struct{}{}
	}

	if v.chronological {
		for i := 1; i < len(times); i++ {
			if !times[i-1].Before(times[i]) {
				return newValidationError(CodeOutOfOrder, "")
			}
		}
		return nil
	}

	// строковое сравнение с отсортированной копией: "10:00" < "9:00"
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	for i := range tokens {
		if tokens[i] != sorted[i] {
			return newValidationError(CodeOutOfOrder, "")
		}
	}

	return nil
}

// ParseValid проверяет строку и сразу возвращает разобранную периодичность.
func (v *Validator) ParseValid(t Type, raw string) (Periodicity, error) {
	if err := v.Validate(t, raw); err != nil {
		return Periodicity{}, err
	}
	return Parse(raw, t)
}
