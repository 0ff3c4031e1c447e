package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/cache"
	"github.com/atelier-ms/repair-tracking-service/internal/events"
	"github.com/atelier-ms/repair-tracking-service/internal/repositories"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

// ServiceManagerDeps bundles what the services need to run.
type ServiceManagerDeps struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Tokens    *auth.TokenManager
	Publisher events.EventPublisher
	Cache     *cache.CacheManager
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	deps ServiceManagerDeps

	authService      AuthService
	vehicleService   VehicleService
	userService      UserService
	dashboardService DashboardService
	exportService    ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps ServiceManagerDeps) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize wires up all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.deps.Repo, sm.deps.Logger, sm.deps.Validator, sm.deps.Tokens)
	sm.vehicleService = NewVehicleService(sm.deps.Repo, sm.deps.Logger, sm.deps.Validator, sm.deps.Publisher)
	sm.userService = NewUserService(sm.deps.Repo, sm.deps.Logger, sm.deps.Validator)

	var statsCache *cache.CacheHelper
	if sm.deps.Cache != nil {
		statsCache = sm.deps.Cache.Stats
	}
	sm.dashboardService = NewDashboardService(sm.deps.Repo, sm.deps.Logger, statsCache)

	sm.exportService = NewExportService(sm.vehicleService, sm.deps.Logger)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized")

	return nil
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Vehicle() VehicleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.vehicleService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.deps.Repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down")

	return nil
}
