package services

import (
	"context"
	"time"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type LoginRequest = validator.LoginRequest
type CreateVehicleRequest = validator.VehicleCreateRequest
type UpdateVehicleRequest = validator.VehicleUpdateRequest
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest

type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      *models.Identity `json:"user"`
}

type VehicleResponse struct {
	*models.Vehicle

	// Whole days spent in the current status, rounded up.
	DaysInStatus int `json:"daysInStatus"`
}

type VehicleListResponse struct {
	Vehicles []*VehicleResponse `json:"vehicles"`
	Total    int                `json:"total"`
}

// VehicleFilter narrows a vehicle list. Query matches matricule, client name,
// client last name and model as a case-insensitive substring; Marque and
// Status match exactly.
type VehicleFilter struct {
	Query  string               `json:"query"`
	Marque string               `json:"marque"`
	Status *models.RepairStatus `json:"status"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	LastName  string          `json:"lastName"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type UserListResponse struct {
	Users []*UserResponse `json:"users"`
	Total int64           `json:"total"`
}

// DashboardSummary is the four headline counters. Vehicles that left the
// workshop are excluded from every bucket.
type DashboardSummary struct {
	Total      int64 `json:"total"`
	Ready      int64 `json:"ready"`
	InProgress int64 `json:"inProgress"`
	Pending    int64 `json:"pending"`
}

type RecentActivityEntry struct {
	VehicleID  uint                `json:"vehicleId"`
	Matricule  string              `json:"matricule"`
	ClientName string              `json:"clientName"`
	Status     models.RepairStatus `json:"status"`
	ChangedAt  time.Time           `json:"changedAt"`
	ChangedBy  string              `json:"changedBy"`
}

type DashboardResponse struct {
	Summary        DashboardSummary      `json:"summary"`
	RecentActivity []RecentActivityEntry `json:"recentActivity"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
}

type VehicleService interface {
	Create(ctx context.Context, req *CreateVehicleRequest, actor *models.Identity) (*VehicleResponse, error)
	GetByID(ctx context.Context, id uint, actor *models.Identity) (*VehicleResponse, error)
	List(ctx context.Context, filter VehicleFilter, actor *models.Identity) (*VehicleListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateVehicleRequest, actor *models.Identity) (*VehicleResponse, error)
	Delete(ctx context.Context, id uint, actor *models.Identity) error
}

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest, actor *models.Identity) (*UserResponse, error)
	GetByID(ctx context.Context, id string, actor *models.Identity) (*UserResponse, error)
	List(ctx context.Context, filters repositories.UserFilters, actor *models.Identity) (*UserListResponse, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest, actor *models.Identity) (*UserResponse, error)
	Delete(ctx context.Context, id string, actor *models.Identity) error
}

type DashboardService interface {
	GetDashboard(ctx context.Context, actor *models.Identity) (*DashboardResponse, error)
}

type ExportService interface {
	// ExportVehicles renders the filtered vehicle list as an xlsx workbook.
	ExportVehicles(ctx context.Context, filter VehicleFilter, actor *models.Identity) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Vehicle() VehicleService
	User() UserService
	Dashboard() DashboardService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
