package repositories

import (
	"context"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// StatusCount is one dashboard bucket row.
type StatusCount struct {
	Status models.RepairStatus `json:"status"`
	Count  int64               `json:"count"`
}

// ===== ENTITY REPOSITORIES =====

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id uint) (*models.Vehicle, error)

	// List returns every record ordered by arrival date descending, status
	// history preloaded oldest first.
	List(ctx context.Context) ([]*models.Vehicle, error)

	// Update persists field edits; when change is non-nil the status-change
	// row is appended in the same transaction.
	Update(ctx context.Context, vehicle *models.Vehicle, change *models.StatusChange) error

	// Delete hard-deletes the record and its history.
	Delete(ctx context.Context, id uint) error

	ExistsByMatricule(ctx context.Context, matricule string, excludeID uint) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
}

type DashboardRepository interface {
	// CountByStatus tallies non-terminal records per status.
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	TotalActive(ctx context.Context) (int64, error)
}
