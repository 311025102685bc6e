package medication

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"medtracker/internal/domain/periodicity"
)

// FormValidator проверяет форму нового лекарства: обязательные поля через
// validator/v10 и строку периодичности через periodicity.Validator.
type FormValidator struct {
	validate    *validator.Validate
	periodicity *periodicity.Validator
}

// NewFormValidator создает валидатор формы.
func NewFormValidator(pv *periodicity.Validator) *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if pv == nil {
		pv = periodicity.NewValidator()
	}

	return &FormValidator{
		validate:    v,
		periodicity: pv,
	}
}

// Validate возвращает *FormError со всеми найденными ошибками или nil.
func (fv *FormValidator) Validate(req CreateRequest) error {
	var fields []FieldError

	if err := fv.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate medication form: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Code:    fe.Tag(),
				Message: fieldMessage(fe),
			})
		}
	}

	if !hasField(fields, "periodicityType") && !hasField(fields, "periodicity") {
		if err := fv.periodicity.Validate(req.PeriodicityType, req.Periodicity); err != nil {
			code, _ := periodicity.CodeOf(err)
			fields = append(fields, FieldError{
				Field:   "periodicity",
				Code:    string(code),
				Message: err.Error(),
			})
		}
	}

	if len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}

func hasField(fields []FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fe.Field() + " must not be negative"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
