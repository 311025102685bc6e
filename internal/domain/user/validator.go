package user

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(req RegisterRequest) error
	ValidateCredentials(c Credentials) error
}

type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator создает новый валидатор
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &RequestValidator{validate: v}
}

// ValidateRegister валидирует данные для регистрации
func (v *RequestValidator) ValidateRegister(req RegisterRequest) error {
	if err := v.check(req); err != nil {
		return err
	}
	if req.Password != req.RepeatedPassword {
		return &DomainError{Err: ErrPasswordMismatch, Code: "repeated_password"}
	}
	return nil
}

// ValidateCredentials валидирует данные для входа
func (v *RequestValidator) ValidateCredentials(c Credentials) error {
	return v.check(c)
}

func (v *RequestValidator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := verrs[0]
	return &DomainError{
		Err:     ErrInvalidInput,
		Code:    fe.Field(),
		Message: fieldMessage(fe),
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}
