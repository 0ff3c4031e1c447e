package validator

import (
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VehicleCreateRequest registers an incoming vehicle. Status is not part of
// the form: every record starts at the workflow's first state.
type VehicleCreateRequest struct {
	ClientName       string    `json:"clientName" validate:"required,min=2,max=100"`
	ClientLastName   string    `json:"clientLastName" validate:"required,min=2,max=100"`
	Matricule        string    `json:"matricule" validate:"required,matricule"`
	Marque           string    `json:"marque" validate:"required,max=50"`
	Model            string    `json:"model" validate:"required,min=2,max=50"`
	AssuranceCompany string    `json:"assuranceCompany" validate:"required,max=100"`
	TypeReparation   []string  `json:"typeReparation" validate:"required,min=1,dive,repair_type"`
	Kilometrage      int       `json:"kilometrage" validate:"min=0"`
	DateArrivee      time.Time `json:"dateArrivee" validate:"required,arrival_date"`
	ChargeeDeDossier *string   `json:"chargeeDeDossier" validate:"omitempty,case_handler"`
	Note             *string   `json:"note" validate:"omitempty,max=2000"`
}

// VehicleUpdateRequest mirrors the edit dialog: the full field set plus an
// optional status selection. A Status equal to the record's current one is a
// plain field edit, not a transition.
type VehicleUpdateRequest struct {
	ClientName       string               `json:"clientName" validate:"required,min=2,max=100"`
	ClientLastName   string               `json:"clientLastName" validate:"required,min=2,max=100"`
	Matricule        string               `json:"matricule" validate:"required,matricule"`
	Marque           string               `json:"marque" validate:"required,max=50"`
	Model            string               `json:"model" validate:"required,min=2,max=50"`
	AssuranceCompany string               `json:"assuranceCompany" validate:"required,max=100"`
	TypeReparation   []string             `json:"typeReparation" validate:"required,min=1,dive,repair_type"`
	Kilometrage      int                  `json:"kilometrage" validate:"min=0"`
	DateArrivee      time.Time            `json:"dateArrivee" validate:"required,arrival_date"`
	ChargeeDeDossier *string              `json:"chargeeDeDossier" validate:"omitempty,case_handler"`
	Note             *string              `json:"note" validate:"omitempty,max=2000"`
	Status           *models.RepairStatus `json:"status" validate:"omitempty,repair_status"`
	StatusNote       *string              `json:"statusNote" validate:"omitempty,max=2000"`
}

// UserCreateRequest is the admin form for adding a staff account.
type UserCreateRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	Name     string          `json:"name" validate:"required,max=100"`
	LastName string          `json:"lastName" validate:"required,max=100"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
}

// UserUpdateRequest edits a staff account; nil fields are left untouched.
type UserUpdateRequest struct {
	Email    *string          `json:"email" validate:"omitempty,email,max=255"`
	Name     *string          `json:"name" validate:"omitempty,max=100"`
	LastName *string          `json:"lastName" validate:"omitempty,max=100"`
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`
	Password *string          `json:"password" validate:"omitempty,min=8,max=72"`
}
