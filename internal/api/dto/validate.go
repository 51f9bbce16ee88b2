package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/support-portal/pkg/util/errorutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct-tag validation and converts failures into the
// portal's error shape.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}
