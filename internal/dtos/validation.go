package dtos

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/placement-portal/internal/apperr"
)

// BindingError turns a ShouldBindJSON failure into a validation error with
// one entry per offending field.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("Invalid JSON format: "+err.Error(), nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe.Field())] = describe(fe)
	}
	return apperr.Validation("Invalid request", fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "failed " + fe.Tag()
}

// jsonName converts a Go field name to the snake_case key used on the wire.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
