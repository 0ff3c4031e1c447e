package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service tests.
type fakeRepository struct {
	vehicles *fakeVehicleRepo
	users    *fakeUserRepo
}

func newFakeRepository() *fakeRepository {
	vehicles := &fakeVehicleRepo{byID: make(map[uint]*models.Vehicle)}
	return &fakeRepository{
		vehicles: vehicles,
		users:    &fakeUserRepo{byID: make(map[string]*models.User)},
	}
}

func (r *fakeRepository) Vehicle() repositories.VehicleRepository { return r.vehicles }
func (r *fakeRepository) User() repositories.UserRepository       { return r.users }
func (r *fakeRepository) Dashboard() repositories.DashboardRepository {
	return &fakeDashboardRepo{vehicles: r.vehicles}
}

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// ===== VEHICLES =====

type fakeVehicleRepo struct {
	byID   map[uint]*models.Vehicle
	nextID uint
}

func (r *fakeVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.nextID++
	vehicle.ID = r.nextID
	r.byID[vehicle.ID] = vehicle
	return nil
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVehicleRepo) List(ctx context.Context) ([]*models.Vehicle, error) {
	out := make([]*models.Vehicle, 0, len(r.byID))
	for _, v := range r.byID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateArrivee.After(out[j].DateArrivee)
	})
	return out, nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle, change *models.StatusChange) error {
	if _, ok := r.byID[vehicle.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if change != nil {
		vehicle.StatusHistory = append(vehicle.StatusHistory, *change)
	}
	r.byID[vehicle.ID] = vehicle
	return nil
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeVehicleRepo) ExistsByMatricule(ctx context.Context, matricule string, excludeID uint) (bool, error) {
	for _, v := range r.byID {
		if v.Matricule == matricule && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ===== USERS =====

type fakeUserRepo struct {
	byID map[string]*models.User

	// When set, GetByEmail fails with this error instead of looking up.
	emailErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.emailErr != nil {
		return nil, r.emailErr
	}
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ===== DASHBOARD =====

type fakeDashboardRepo struct {
	vehicles *fakeVehicleRepo
}

func (r *fakeDashboardRepo) CountByStatus(ctx context.Context) ([]repositories.StatusCount, error) {
	counts := make(map[models.RepairStatus]int64)
	for _, v := range r.vehicles.byID {
		if v.CurrentStatus.Terminal() {
			continue
		}
		counts[v.CurrentStatus]++
	}

	out := make([]repositories.StatusCount, 0, len(counts))
	for _, status := range models.RepairStatuses {
		if n, ok := counts[status]; ok {
			out = append(out, repositories.StatusCount{Status: status, Count: n})
		}
	}
	return out, nil
}

func (r *fakeDashboardRepo) TotalActive(ctx context.Context) (int64, error) {
	var total int64
	for _, v := range r.vehicles.byID {
		if !v.CurrentStatus.Terminal() {
			total++
		}
	}
	return total, nil
}
