package api

import (
	"errors"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/campusevents/campus-client/pkg/apperrors"
)

// validator maps go-playground validation failures onto the shared
// ErrValidation sentinel so callers can branch with errors.Is.
type validator struct {
	v *playground.Validate
}

func newValidator() *validator {
	return &validator{v: playground.New(playground.WithRequiredStructEnabled())}
}

func (c *validator) Struct(s any) error {
	err := c.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return apperrors.ValidationError(strings.ToLower(first.Field()), reasonFor(first))
	}
	return apperrors.ValidationError("input", err.Error())
}

func reasonFor(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
