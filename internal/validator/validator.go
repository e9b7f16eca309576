// Package validator checks manifest rows and API requests using validator/v10.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"ezexport/internal/models"
)

// ErrValidation is wrapped by every error returned from Validate.
var ErrValidation = errors.New("validation failed")

// FieldErrors maps a JSON field name to a readable problem description.
type FieldErrors map[string]string

// Error implements error with fields in a stable order.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fe[k])
	}

	return strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with the export's custom rules.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that knows the "category" tag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.ValidCategories, models.Category(fl.Field().String()))
	})

	return &Validator{v: v}
}

// Validate validates a struct. Failures wrap ErrValidation and carry FieldErrors.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	fieldErrors := make(FieldErrors, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}

	return fmt.Errorf("%w: %w", ErrValidation, fieldErrors)
}

// ValidatePage checks a manifest row.
func (v *Validator) ValidatePage(page *models.PageRecord) error {
	return v.Validate(page)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", e.Param())
	case "category":
		return fmt.Sprintf("%q is not an exported category", e.Value())
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
