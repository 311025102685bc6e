package periodicity

import "errors"

var (
	ErrUnknownType   = errors.New("periodicity type is required")
	ErrInvalidNumber = errors.New("interval must be a valid number")
	ErrOutOfRange    = errors.New("interval must be between 1 and 24 hours")
	ErrEmptyList     = errors.New("at least one time must be provided")
	ErrTooMany       = errors.New("at most 6 times per day are allowed")
	ErrBadFormat     = errors.New("invalid time format, use HH:MM (e.g. 08:00, 16:30)")
	ErrDuplicateTime = errors.New("duplicate times are not allowed")
	ErrOutOfOrder    = errors.New("times must be in chronological order")
)

// Code - машинно-читаемый код ошибки валидации.
type Code string

const (
	CodeUnknownType   Code = "UnknownType"
	CodeInvalidNumber Code = "InvalidNumber"
	CodeOutOfRange    Code = "OutOfRange"
	CodeEmptyList     Code = "EmptyList"
	CodeTooMany       Code = "TooMany"
	CodeBadFormat     Code = "BadFormat"
	CodeDuplicateTime Code = "DuplicateTime"
	CodeOutOfOrder    Code = "OutOfOrder"
)

var codeErrors = map[Code]error{
	CodeUnknownType:   ErrUnknownType,
	CodeInvalidNumber: ErrInvalidNumber,
	CodeOutOfRange:    ErrOutOfRange,
	CodeEmptyList:     ErrEmptyList,
	CodeTooMany:       ErrTooMany,
	CodeBadFormat:     ErrBadFormat,
	CodeDuplicateTime: ErrDuplicateTime,
	CodeOutOfOrder:    ErrOutOfOrder,
}

// ValidationError - ошибка ввода периодичности. Исправляется пользователем,
// не является сбоем системы.
type ValidationError struct {
	Err     error
	Code    Code
	Message string
}

func newValidationError(code Code, message string) *ValidationError {
	return &ValidationError{
		Err:     codeErrors[code],
		Code:    code,
		Message: message,
	}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CodeOf извлекает код ошибки валидации, если err ее содержит.
func CodeOf(err error) (Code, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Code, true
	}
	return "", false
}
