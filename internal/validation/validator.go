// Package validation checks article payloads before the workflow touches the store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"NewsDesk/internal/content"
	"NewsDesk/internal/domain"
)

// Validator wraps go-playground/validator with article rules.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator reporting fields by their JSON names.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("visible_text", func(fl validator.FieldLevel) bool {
		return content.PlainText(fl.Field().String()) != ""
	})

	// visible_max bounds the rendered text, not the escaped markup.
	_ = validate.RegisterValidation("visible_max", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(content.PlainText(fl.Field().String())) <= limit
	})

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

// Content validates author-supplied article attributes.
func (v *Validator) Content(c domain.Content) error {
	err := v.validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate content: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "visible_max":
		return fmt.Sprintf("%s must be at most %s characters of text", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "visible_text":
		return fmt.Sprintf("%s must contain text", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
