package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/atelier-ms/repair-tracking-service/internal/events"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

type vehicleService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewVehicleService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) VehicleService {
	return &vehicleService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *vehicleService) Create(ctx context.Context, req *CreateVehicleRequest, actor *models.Identity) (*VehicleResponse, error) {
	s.logger.Info("Creating vehicle", "matricule", req.Matricule, "actor", actor.Email)

	if err := requireMutationRole(actor); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateVehicleCreate(req); len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.repo.Vehicle().ExistsByMatricule(ctx, req.Matricule, 0)
	if err != nil {
		return nil, fmt.Errorf("matricule check failed: %w", err)
	}
	if taken {
		return nil, ErrMatriculeTaken
	}

	now := time.Now()
	vehicle := &models.Vehicle{
		ClientName:       req.ClientName,
		ClientLastName:   req.ClientLastName,
		Matricule:        req.Matricule,
		Marque:           req.Marque,
		Model:            req.Model,
		AssuranceCompany: req.AssuranceCompany,
		TypeReparation:   datatypes.NewJSONSlice(req.TypeReparation),
		Kilometrage:      req.Kilometrage,
		DateArrivee:      req.DateArrivee,
		CurrentStatus:    models.StatusEnAttenteDevis,
		StatusUpdatedAt:  &now,
		ChargeeDeDossier: req.ChargeeDeDossier,
		Note:             req.Note,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Vehicle().Create(ctx, vehicle); err != nil {
			return fmt.Errorf("failed to create vehicle: %w", err)
		}

		initial := &models.StatusChange{
			ID:        uuid.NewString(),
			VehicleID: vehicle.ID,
			Status:    vehicle.CurrentStatus,
			ChangedAt: now,
			ChangedBy: actor.DisplayName(),
		}
		return txRepo.Vehicle().Update(ctx, vehicle, initial)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TopicVehicleCreated, vehicle, actor, nil)
	s.logger.Info("Vehicle created", "vehicle_id", vehicle.ID, "matricule", vehicle.Matricule)

	return s.GetByID(ctx, vehicle.ID, actor)
}

func (s *vehicleService) GetByID(ctx context.Context, id uint, actor *models.Identity) (*VehicleResponse, error) {
	vehicle, err := s.repo.Vehicle().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	synthesizeHistory(vehicle, time.Now())
	return buildVehicleResponse(vehicle, time.Now()), nil
}

func (s *vehicleService) List(ctx context.Context, filter VehicleFilter, actor *models.Identity) (*VehicleListResponse, error) {
	vehicles, err := s.repo.Vehicle().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	now := time.Now()
	for _, v := range vehicles {
		synthesizeHistory(v, now)
	}

	filtered := FilterVehicles(vehicles, filter)

	responses := make([]*VehicleResponse, len(filtered))
	for i, v := range filtered {
		responses[i] = buildVehicleResponse(v, now)
	}

	return &VehicleListResponse{
		Vehicles: responses,
		Total:    len(responses),
	}, nil
}

func (s *vehicleService) Update(ctx context.Context, id uint, req *UpdateVehicleRequest, actor *models.Identity) (*VehicleResponse, error) {
	s.logger.Info("Updating vehicle", "vehicle_id", id, "actor", actor.Email)

	if err := requireMutationRole(actor); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateVehicleUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	vehicle, err := s.repo.Vehicle().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if req.Matricule != vehicle.Matricule {
		taken, err := s.repo.Vehicle().ExistsByMatricule(ctx, req.Matricule, id)
		if err != nil {
			return nil, fmt.Errorf("matricule check failed: %w", err)
		}
		if taken {
			return nil, ErrMatriculeTaken
		}
	}

	vehicle.ClientName = req.ClientName
	vehicle.ClientLastName = req.ClientLastName
	vehicle.Matricule = req.Matricule
	vehicle.Marque = req.Marque
	vehicle.Model = req.Model
	vehicle.AssuranceCompany = req.AssuranceCompany
	vehicle.TypeReparation = datatypes.NewJSONSlice(req.TypeReparation)
	vehicle.Kilometrage = req.Kilometrage
	vehicle.DateArrivee = req.DateArrivee
	vehicle.ChargeeDeDossier = req.ChargeeDeDossier
	vehicle.Note = req.Note

	// Re-selecting the current status is a plain field edit, not a
	// transition: no history entry, no timestamp bump.
	var change *models.StatusChange
	previousStatus := vehicle.CurrentStatus
	if req.Status != nil && *req.Status != vehicle.CurrentStatus {
		now := time.Now()
		vehicle.CurrentStatus = *req.Status
		vehicle.StatusUpdatedAt = &now
		change = &models.StatusChange{
			ID:        uuid.NewString(),
			VehicleID: vehicle.ID,
			Status:    *req.Status,
			ChangedAt: now,
			ChangedBy: actor.DisplayName(),
			Notes:     req.StatusNote,
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Vehicle().Update(ctx, vehicle, change)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	if change != nil {
		s.publishEvent(ctx, events.TopicVehicleStatusChanged, vehicle, actor, map[string]interface{}{
			"from": previousStatus,
			"to":   vehicle.CurrentStatus,
		})
	}

	return s.GetByID(ctx, vehicle.ID, actor)
}

func (s *vehicleService) Delete(ctx context.Context, id uint, actor *models.Identity) error {
	s.logger.Info("Deleting vehicle", "vehicle_id", id, "actor", actor.Email)

	if err := requireMutationRole(actor); err != nil {
		return err
	}

	vehicle, err := s.repo.Vehicle().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("failed to get vehicle: %w", err)
	}

	if err := s.repo.Vehicle().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.publishEvent(ctx, events.TopicVehicleDeleted, vehicle, actor, nil)
	return nil
}

// ===== HELPERS =====

// requireMutationRole enforces who may change repair records. Viewers read,
// they never write.
func requireMutationRole(actor *models.Identity) error {
	if actor == nil {
		return ErrUnauthorized
	}
	switch actor.Role {
	case models.RoleReception, models.RoleAdmin:
		return nil
	}
	return ErrAccessDenied
}

func (s *vehicleService) publishEvent(ctx context.Context, topic string, vehicle *models.Vehicle, actor *models.Identity, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, topic, events.Event{
		VehicleID: vehicle.ID,
		Matricule: vehicle.Matricule,
		Actor:     actor.DisplayName(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Error("Failed to publish event", "topic", topic, "vehicle_id", vehicle.ID, "error", err)
	}
}
