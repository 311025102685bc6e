package periodicity

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"medtracker/internal/i18n"
)

// Type определяет, как интерпретируется строка периодичности.
type Type string

const (
	TypeInterval   Type = "INTERVAL"
	TypeFixedTimes Type = "FIXED_TIMES"
)

func (Type) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type: "string",
		Enum: []any{
			string(TypeInterval),
			string(TypeFixedTimes),
		},
		Description: "Тип периодичности приема",
		Examples:    []any{TypeInterval},
	}
}

// Validate проверяет, что тип задан и известен.
func (t Type) Validate() error {
	switch t {
	case TypeInterval, TypeFixedTimes:
		return nil
	}
	return fmt.Errorf("unknown periodicity type: %q", string(t))
}

// IsAbsent сообщает, что тип не указан (старые записи без типа).
func (t Type) IsAbsent() bool {
	return t == ""
}

func (t Type) String() string {
	return string(t)
}

// DisplayName возвращает название типа на языке loc.
func (t Type) DisplayName(loc *i18n.Locale) string {
	switch t {
	case TypeInterval:
		return loc.Sprintf("Interval (hours)")
	case TypeFixedTimes:
		return loc.Sprintf("Fixed times")
	default:
		return loc.Sprintf("Unknown type")
	}
}
