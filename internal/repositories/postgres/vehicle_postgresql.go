package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/atelier-ms/repair-tracking-service/internal/cache"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
)

const vehicleListCacheKey = "list:all"

// VehiclePostgreSQL implements VehicleRepository over gorm with a Redis
// cache-aside for the full list.
type VehiclePostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
	stats *cache.CacheHelper
}

func NewVehiclePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.VehicleRepository {
	return &VehiclePostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.VehicleCacheConfig.Prefix),
		stats: cache.NewCacheHelper(redisClient, cache.StatsCacheConfig.Prefix),
	}
}

func (r *VehiclePostgreSQL) Create(ctx context.Context, vehicle *models.Vehicle) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(vehicle).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	r.invalidate(ctx)
	return nil
}

func (r *VehiclePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehiclePostgreSQL) List(ctx context.Context) ([]*models.Vehicle, error) {
	var cached []*models.Vehicle
	if err := r.cache.Get(ctx, vehicleListCacheKey, &cached); err == nil {
		return cached, nil
	}

	var vehicles []*models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		Order("date_arrivee DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	if err := r.cache.Set(ctx, vehicleListCacheKey, vehicles, cache.VehicleCacheConfig.TTL); err != nil {
		// cache is best effort; the read already succeeded
		_ = err
	}

	return vehicles, nil
}

func (r *VehiclePostgreSQL) Update(ctx context.Context, vehicle *models.Vehicle, change *models.StatusChange) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("StatusHistory").Save(vehicle).Error; err != nil {
			return err
		}
		if change != nil {
			if err := tx.Create(change).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update vehicle %d: %w", vehicle.ID, err)
	}

	r.invalidate(ctx)
	return nil
}

func (r *VehiclePostgreSQL) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", id).Delete(&models.StatusChange{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Vehicle{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *VehiclePostgreSQL) ExistsByMatricule(ctx context.Context, matricule string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("matricule = ?", matricule)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check matricule: %w", err)
	}
	return count > 0, nil
}

// invalidate drops the list snapshot and any dashboard aggregates, since both
// are derived from vehicle rows.
func (r *VehiclePostgreSQL) invalidate(ctx context.Context) {
	cache.SafeDelete(ctx, r.cache, vehicleListCacheKey)
	cache.SafeInvalidatePattern(ctx, r.stats, "*")
}
