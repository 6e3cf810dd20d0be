package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/campus-transit/grievance-service/pkg/util"
)

var validate = validator.New()

// validateInput runs struct tag validation and maps failures to
// VALIDATION_FAILED with one detail entry per field.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid input", details)
}
