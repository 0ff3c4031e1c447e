package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *userService) Create(ctx context.Context, req *CreateUserRequest, actor *models.Identity) (*UserResponse, error) {
	s.logger.Info("Creating user", "email", req.Email, "actor", actor.Email)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, fmt.Errorf("email check failed: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		LastName:     req.LastName,
		Role:         req.Role,
		PasswordHash: hash,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role)
	return buildUserResponse(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string, actor *models.Identity) (*UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return buildUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters, actor *models.Identity) (*UserListResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = buildUserResponse(u)
	}

	return &UserListResponse{
		Users: responses,
		Total: total,
	}, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest, actor *models.Identity) (*UserResponse, error) {
	s.logger.Info("Updating user", "user_id", id, "actor", actor.Email)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.repo.User().ExistsByEmail(ctx, *req.Email, id)
		if err != nil {
			return nil, fmt.Errorf("email check failed: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return buildUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, id string, actor *models.Identity) error {
	s.logger.Info("Deleting user", "user_id", id, "actor", actor.Email)

	if err := requireAdmin(actor); err != nil {
		return err
	}

	// Admins cannot delete their own account and lock everyone out.
	if actor.ID == id {
		return ErrAccessDenied
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ===== HELPERS =====

func requireAdmin(actor *models.Identity) error {
	if actor == nil {
		return ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin {
		return ErrAccessDenied
	}
	return nil
}

func buildUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
