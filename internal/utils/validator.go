package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/UniFest-2025/event-service/internal/errors"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation plus the custom
// domain validators.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	RegisterCustomValidators(v)
	return &Validator{validate: v}
}

// ValidateStruct validates struct tags and converts failures to the shared
// ValidationErrors type.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Custom validation functions

func ValidateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func ValidateEventType(fl validator.FieldLevel) bool {
	switch models.EventType(fl.Field().String()) {
	case models.EventCollegeOnly, models.EventInterCollege:
		return true
	}
	return false
}

func ValidateEventCategory(fl validator.FieldLevel) bool {
	switch models.EventCategory(fl.Field().String()) {
	case models.CategorySports, models.CategoryCultural, models.CategoryHackathon,
		models.CategorySeminar, models.CategoryWorkshop, models.CategoryTechnical,
		models.CategoryNonTechnical, models.CategoryOther:
		return true
	}
	return false
}

func ValidateEventStatus(fl validator.FieldLevel) bool {
	switch models.EventStatus(fl.Field().String()) {
	case models.EventUpcoming, models.EventOngoing, models.EventCompleted, models.EventCancelled:
		return true
	}
	return false
}

func ValidateCertificateTitle(fl validator.FieldLevel) bool {
	value := models.CertificateTitle(fl.Field().String())
	for _, t := range models.ValidCertificateTitles {
		if t == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators.
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("event_type", ValidateEventType)
	validate.RegisterValidation("event_category", ValidateEventCategory)
	validate.RegisterValidation("event_status", ValidateEventStatus)
	validate.RegisterValidation("certificate_title", ValidateCertificateTitle)

	// Use json tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
