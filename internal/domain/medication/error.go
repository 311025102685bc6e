package medication

import (
	"errors"
	"strings"
)

var (
	ErrEmptyID         = errors.New("medication id is empty")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNotFound        = errors.New("medication not found")
	ErrInvalidForm     = errors.New("invalid medication form")
)

// FieldError - ошибка одного поля формы.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FormError собирает ошибки всех полей формы.
type FormError struct {
	Fields []FieldError `json:"errors"`
}

func (e *FormError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrInvalidForm.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *FormError) Unwrap() error {
	return ErrInvalidForm
}

// Field возвращает первую ошибку по имени поля.
func (e *FormError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}
