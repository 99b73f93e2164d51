// Package security provides request validation and input checks
package security

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alchemorsel/flavorgraph/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// maxIngredientLength bounds a single ingredient name in bytes
const maxIngredientLength = 100

// dangerous fragments are rejected in ingredient names
var dangerous = []string{"<", ">", "javascript:", "onload=", "onerror="}

// Validator validates request structs and formats failures as AppErrors
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports json field names and knows
// the "ingredient" tag
func NewValidator() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("ingredient", validateIngredient)

	return &Validator{validate: validate}
}

// validateIngredient accepts names up to maxIngredientLength without markup.
// Empty names pass; they are simply unknown to the graph.
func validateIngredient(fl validator.FieldLevel) bool {
	ingredient := fl.Field().String()
	if len(ingredient) > maxIngredientLength {
		return false
	}

	lower := strings.ToLower(ingredient)
	for _, danger := range dangerous {
		if strings.Contains(lower, danger) {
			return false
		}
	}
	return true
}

// Struct validates s, returning a VALIDATION_FAILED AppError listing every
// failing field
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewBadRequestError(err.Error())
	}

	details := make([]errors.ValidationError, 0, len(validationErrs))
	for _, e := range validationErrs {
		details = append(details, errors.ValidationError{
			Field:   e.Namespace(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: message(e),
		})
	}
	return errors.NewValidationErrors(details)
}

func message(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "ingredient":
		return "Invalid ingredient name"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
