package validator

import (
	"strings"
	"time"
)

// BusinessValidator layers workshop rules on top of struct-tag validation.
type BusinessValidator struct {
	validator *Validator
}

func NewBusinessValidator(v *Validator) *BusinessValidator {
	return &BusinessValidator{validator: v}
}

// ValidateVehicleCreate validates the add-vehicle form.
func (bv *BusinessValidator) ValidateVehicleCreate(req *VehicleCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.validator.Validate(req)...)
	errors = append(errors, validateVehicleFields(req.Matricule, req.TypeReparation, req.DateArrivee)...)

	return errors
}

// ValidateVehicleUpdate validates the edit dialog submission.
func (bv *BusinessValidator) ValidateVehicleUpdate(req *VehicleUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.validator.Validate(req)...)
	errors = append(errors, validateVehicleFields(req.Matricule, req.TypeReparation, req.DateArrivee)...)

	return errors
}

func validateVehicleFields(matricule string, repairTypes []string, dateArrivee time.Time) ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(matricule) == "" {
		errors = append(errors, ValidationError{
			Field:   "matricule",
			Message: "cannot be blank",
			Rule:    "business_logic",
		})
	}

	seen := make(map[string]bool, len(repairTypes))
	for _, label := range repairTypes {
		if seen[label] {
			errors = append(errors, ValidationError{
				Field:   "typeReparation",
				Message: "contains duplicate categories",
				Value:   label,
				Rule:    "business_logic",
			})
			break
		}
		seen[label] = true
	}

	if dateArrivee.After(endOfDay(time.Now())) {
		errors = append(errors, ValidationError{
			Field:   "dateArrivee",
			Message: "cannot be in the future",
			Value:   dateArrivee,
			Rule:    "business_logic",
		})
	}

	return errors
}
