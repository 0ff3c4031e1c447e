package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

// Validator wraps go-playground/validator with the workshop's custom rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerRules()
	return v
}

// GetBusinessValidator returns the workshop-rule layer bound to this
// validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return NewBusinessValidator(v)
}

// Validate runs struct-tag validation and converts failures into
// ValidationErrors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerRules() {
	// Closed repair-status set
	v.validate.RegisterValidation("repair_status", func(fl validator.FieldLevel) bool {
		return models.RepairStatus(fl.Field().String()).Valid()
	})

	// Repair-category labels
	v.validate.RegisterValidation("repair_type", func(fl validator.FieldLevel) bool {
		return models.ValidRepairType(fl.Field().String())
	})

	// Case-handler closed set
	v.validate.RegisterValidation("case_handler", func(fl validator.FieldLevel) bool {
		return models.ValidCaseHandler(fl.Field().String())
	})

	// Role closed set
	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	// Arrival date must not be in the future (same-day intake is fine)
	v.validate.RegisterValidation("arrival_date", func(fl validator.FieldLevel) bool {
		date, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !date.After(endOfDay(time.Now()))
	})

	// Plate strings are trimmed non-empty
	v.validate.RegisterValidation("matricule", func(fl validator.FieldLevel) bool {
		plate := strings.TrimSpace(fl.Field().String())
		return len(plate) >= 5 && len(plate) <= 20
	})
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ===== ERROR TYPES =====

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// ToValidationErrors converts go-playground validation failures into the
// service error shape.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			out = append(out, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return out
	}

	return ValidationErrors{{Field: "", Message: err.Error(), Rule: "struct"}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "repair_status":
		return "is not a known repair status"
	case "repair_type":
		return "is not a known repair category"
	case "case_handler":
		return "is not a known case handler"
	case "user_role":
		return "is not a known role"
	case "arrival_date":
		return "cannot be in the future"
	case "matricule":
		return "must be a plate of 5 to 20 characters"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
