package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
)

// DashboardPostgreSQL answers dashboard counts directly in SQL. The service
// layer also has a pure in-memory summary over a list snapshot; this path
// serves the counts without hydrating full rows.
type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (r *DashboardPostgreSQL) CountByStatus(ctx context.Context) ([]repositories.StatusCount, error) {
	var counts []repositories.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Select("etat_devis AS status, COUNT(*) AS count").
		Where("etat_devis <> ?", models.StatusSortie).
		Group("etat_devis").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles by status: %w", err)
	}
	return counts, nil
}

func (r *DashboardPostgreSQL) TotalActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("etat_devis <> ?", models.StatusSortie).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active vehicles: %w", err)
	}
	return total, nil
}
