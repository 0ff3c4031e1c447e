package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
)

// UserPostgreSQL implements UserRepository over gorm. Stored roles are
// validated on every read: an out-of-enum value is a data error, never a
// silent default.
type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := user.Role.Validate(); err != nil {
		return fmt.Errorf("refusing to store user %s: %w", user.Email, err)
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := user.Role.Validate(); err != nil {
		return nil, fmt.Errorf("user %s has invalid stored role: %w", id, err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	if err := user.Role.Validate(); err != nil {
		return nil, fmt.Errorf("user %s has invalid stored role: %w", email, err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where(
			"email ILIKE ? OR name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var users []*models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		if err := user.Role.Validate(); err != nil {
			return nil, 0, fmt.Errorf("user %s has invalid stored role: %w", user.ID, err)
		}
	}

	return users, total, nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := user.Role.Validate(); err != nil {
		return fmt.Errorf("refusing to store user %s: %w", user.ID, err)
	}
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

func (r *UserPostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}
