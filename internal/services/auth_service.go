package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
	}
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password fail identically so the response never reveals which
// accounts exist.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		// A directory error fails the same way as an unknown account.
		if repositories.IsNotFoundError(err) {
			s.logger.Info("Login failed, unknown email", "email", req.Email)
		} else {
			s.logger.Error("Login failed, user lookup error", "email", req.Email, "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("Login failed, wrong password", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	identity := models.IdentityFromUser(user)
	token, expiresAt, err := s.tokens.Generate(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("Login succeeded", "user_id", user.ID, "role", user.Role)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      identity,
	}, nil
}
