package models

import (
	"time"

	"gorm.io/datatypes"
)

type RepairStatus string

// Workshop statuses. Transitions are unconstrained: any status may follow any
// other, the only rule being that re-selecting the current status is not a
// transition at all.
const (
	StatusEnAttenteDevis     RepairStatus = "En Attente de devis"
	StatusAttenteAccordDevis RepairStatus = "Attente accord de devis"
	StatusDevisAccorde       RepairStatus = "Devis accordé"
	StatusAttentePiece       RepairStatus = "Attente pièce"
	StatusPieceNonDispo      RepairStatus = "Pièce non dispo"
	StatusReparationMeca     RepairStatus = "Au cours de réparation mécanique"
	StatusReparationTolerie  RepairStatus = "Au cours de réparation tôlerie"
	StatusReparationElec     RepairStatus = "Au cours de réparation électrique"
	StatusPret               RepairStatus = "Prêt"
	StatusSortie             RepairStatus = "Sortie"
)

// RepairStatuses lists every status in workflow order.
var RepairStatuses = []RepairStatus{
	StatusEnAttenteDevis,
	StatusAttenteAccordDevis,
	StatusDevisAccorde,
	StatusAttentePiece,
	StatusPieceNonDispo,
	StatusReparationMeca,
	StatusReparationTolerie,
	StatusReparationElec,
	StatusPret,
	StatusSortie,
}

// InProgressStatuses are the three "in repair" states counted separately on
// the dashboard.
var InProgressStatuses = map[RepairStatus]bool{
	StatusReparationMeca:    true,
	StatusReparationTolerie: true,
	StatusReparationElec:    true,
}

func (s RepairStatus) Valid() bool {
	for _, known := range RepairStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the vehicle has left the workshop. Terminal
// records are excluded from all dashboard counts.
func (s RepairStatus) Terminal() bool {
	return s == StatusSortie
}

// RepairTypes are the repair-category labels a vehicle can be booked for.
var RepairTypes = []string{
	"Réparation mécanique",
	"Réparation tôlerie",
	"Réparation électrique",
}

// CaseHandlers is the fixed set of staff the paperwork can be assigned to.
var CaseHandlers = []string{"Cyrine", "Marwa", "Passager", "Groscomptes"}

func ValidCaseHandler(name string) bool {
	for _, h := range CaseHandlers {
		if name == h {
			return true
		}
	}
	return false
}

func ValidRepairType(label string) bool {
	for _, t := range RepairTypes {
		if label == t {
			return true
		}
	}
	return false
}

// Vehicle is a repair record. Column names follow the workshop's historical
// schema (etat_devis, date_arrivee, ...).
type Vehicle struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Client identity
	ClientName     string `json:"clientName" gorm:"column:client_name;not null;size:100"`
	ClientLastName string `json:"clientLastName" gorm:"column:client_lastname;not null;size:100"`

	// Vehicle identity
	Matricule string `json:"matricule" gorm:"uniqueIndex;not null;size:20"`
	Marque    string `json:"marque" gorm:"not null;size:50"`
	Model     string `json:"model" gorm:"not null;size:50"`

	// Repair metadata
	AssuranceCompany string                      `json:"assuranceCompany" gorm:"column:assurance_company;size:100"`
	TypeReparation   datatypes.JSONSlice[string] `json:"typeReparation" gorm:"column:type_reparation"`
	Kilometrage      int                         `json:"kilometrage" gorm:"not null"`
	DateArrivee      time.Time                   `json:"dateArrivee" gorm:"column:date_arrivee;not null"`

	CurrentStatus RepairStatus `json:"currentStatus" gorm:"column:etat_devis;size:64;not null"`
	// Bumped only when the status actually changes.
	StatusUpdatedAt *time.Time `json:"-" gorm:"column:etat_updated_at"`

	ChargeeDeDossier *string `json:"chargeeDeDossier,omitempty" gorm:"column:chargee_de_dossier;size:50"`
	Note             *string `json:"note,omitempty" gorm:"size:2000"`

	// Oldest first; never empty once the record exists, and its last entry
	// always matches CurrentStatus.
	StatusHistory []StatusChange `json:"statusHistory" gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Vehicle) TableName() string {
	return "cars"
}

// LastStatusChange returns the newest history entry, or nil for a bare row
// whose history has not been synthesized yet.
func (v *Vehicle) LastStatusChange() *StatusChange {
	if len(v.StatusHistory) == 0 {
		return nil
	}
	return &v.StatusHistory[len(v.StatusHistory)-1]
}

// StatusChange records one status transition. Immutable once appended.
type StatusChange struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	VehicleID uint         `json:"-" gorm:"index;not null"`
	Status    RepairStatus `json:"status" gorm:"size:64;not null"`
	ChangedAt time.Time    `json:"changedAt" gorm:"not null"`
	ChangedBy string       `json:"changedBy" gorm:"size:100;not null"`
	Notes     *string      `json:"notes,omitempty" gorm:"size:2000"`
}

func (StatusChange) TableName() string {
	return "car_status_changes"
}
