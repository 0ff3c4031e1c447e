package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

func validCreate() *VehicleCreateRequest {
	return &VehicleCreateRequest{
		ClientName:       "Ahmed",
		ClientLastName:   "Ben Ali",
		Matricule:        "123 TU 4567",
		Marque:           "Peugeot",
		Model:            "208",
		AssuranceCompany: "STAR",
		TypeReparation:   []string{"Réparation mécanique"},
		Kilometrage:      42000,
		DateArrivee:      time.Now().Add(-24 * time.Hour),
	}
}

// hasFieldError matches by prefix because dive rules report indexed fields
// such as "typereparation[0]".
func hasFieldError(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if strings.HasPrefix(strings.ToLower(e.Field), field) {
			return true
		}
	}
	return false
}

func TestValidateVehicleCreate(t *testing.T) {
	bv := New().GetBusinessValidator()

	t.Run("valid form passes", func(t *testing.T) {
		if errs := bv.ValidateVehicleCreate(validCreate()); len(errs) > 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("same-day arrival is fine", func(t *testing.T) {
		req := validCreate()
		req.DateArrivee = time.Now()
		if errs := bv.ValidateVehicleCreate(req); len(errs) > 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	tests := []struct {
		name      string
		mutate    func(*VehicleCreateRequest)
		wantField string
	}{
		{
			name:      "blank matricule",
			mutate:    func(r *VehicleCreateRequest) { r.Matricule = "      " },
			wantField: "matricule",
		},
		{
			name:      "unknown repair category",
			mutate:    func(r *VehicleCreateRequest) { r.TypeReparation = []string{"Vidange"} },
			wantField: "typereparation",
		},
		{
			name: "duplicate repair categories",
			mutate: func(r *VehicleCreateRequest) {
				r.TypeReparation = []string{"Réparation mécanique", "Réparation mécanique"}
			},
			wantField: "typereparation",
		},
		{
			name:      "empty repair categories",
			mutate:    func(r *VehicleCreateRequest) { r.TypeReparation = nil },
			wantField: "typereparation",
		},
		{
			name:      "future arrival date",
			mutate:    func(r *VehicleCreateRequest) { r.DateArrivee = time.Now().Add(48 * time.Hour) },
			wantField: "datearrivee",
		},
		{
			name:      "negative mileage",
			mutate:    func(r *VehicleCreateRequest) { r.Kilometrage = -1 },
			wantField: "kilometrage",
		},
		{
			name: "unknown case handler",
			mutate: func(r *VehicleCreateRequest) {
				handler := "Anonyme"
				r.ChargeeDeDossier = &handler
			},
			wantField: "chargeededossier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(req)

			errs := bv.ValidateVehicleCreate(req)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			if !hasFieldError(errs, tt.wantField) {
				t.Errorf("expected an error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateVehicleUpdate_Status(t *testing.T) {
	bv := New().GetBusinessValidator()

	base := validCreate()
	req := &VehicleUpdateRequest{
		ClientName:       base.ClientName,
		ClientLastName:   base.ClientLastName,
		Matricule:        base.Matricule,
		Marque:           base.Marque,
		Model:            base.Model,
		AssuranceCompany: base.AssuranceCompany,
		TypeReparation:   base.TypeReparation,
		Kilometrage:      base.Kilometrage,
		DateArrivee:      base.DateArrivee,
	}

	t.Run("known status accepted", func(t *testing.T) {
		status := models.StatusPret
		req.Status = &status
		if errs := bv.ValidateVehicleUpdate(req); len(errs) > 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		status := models.RepairStatus("Perdu")
		req.Status = &status
		errs := bv.ValidateVehicleUpdate(req)
		if !hasFieldError(errs, "status") {
			t.Errorf("expected an error on status, got %v", errs)
		}
	})
}

func TestValidateUserRequests(t *testing.T) {
	v := New()

	t.Run("valid user", func(t *testing.T) {
		errs := v.Validate(&UserCreateRequest{
			Email:    "staff@atelier.tn",
			Name:     "Marwa",
			LastName: "Gharbi",
			Role:     models.RoleReception,
			Password: "long-enough-pass",
		})
		if len(errs) > 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("short password", func(t *testing.T) {
		errs := v.Validate(&UserCreateRequest{
			Email:    "staff@atelier.tn",
			Name:     "Marwa",
			LastName: "Gharbi",
			Role:     models.RoleReception,
			Password: "short",
		})
		if !hasFieldError(errs, "password") {
			t.Errorf("expected an error on password, got %v", errs)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		errs := v.Validate(&UserCreateRequest{
			Email:    "staff@atelier.tn",
			Name:     "Marwa",
			LastName: "Gharbi",
			Role:     models.UserRole("root"),
			Password: "long-enough-pass",
		})
		if !hasFieldError(errs, "role") {
			t.Errorf("expected an error on role, got %v", errs)
		}
	})
}
