package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the handler layer.
var (
	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authentication required")

	// Authorization
	ErrAccessDenied = errors.New("access denied")

	// Vehicles
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrMatriculeTaken  = errors.New("matricule already registered")

	// Users
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)
