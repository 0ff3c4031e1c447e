package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/services"
	"github.com/atelier-ms/repair-tracking-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	vehicleHandler   *VehicleHandler
	userHandler      *UserHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		vehicleHandler:   NewVehicleHandler(serviceManager.Vehicle(), serviceManager.Export(), logger),
		userHandler:      NewUserHandler(serviceManager.User(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:   NewJWTAuthMiddleware(tokens),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Login is the only unauthenticated endpoint
		v1.POST("/auth/login", hm.authHandler.Login)

		authed := v1.Group("")
		authed.Use(hm.authMiddleware.AuthMiddleware())
		{
			// Session
			authed.POST("/auth/logout", hm.authHandler.Logout)
			authed.GET("/auth/me", hm.authHandler.Me)

			// Dashboard - all authenticated roles
			authed.GET("/dashboard", hm.dashboardHandler.GetDashboard)

			// Vehicle routes
			vehicles := authed.Group("/vehicles")
			{
				// Reads - all authenticated roles
				vehicles.GET("", hm.vehicleHandler.ListVehicles)
				vehicles.GET("/export", hm.vehicleHandler.ExportVehicles)
				vehicles.GET("/:id", hm.vehicleHandler.GetVehicle)

				// Mutations - reception staff and admins only
				vehicles.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleReception, models.RoleAdmin), hm.vehicleHandler.CreateVehicle)
				vehicles.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleReception, models.RoleAdmin), hm.vehicleHandler.UpdateVehicle)
				vehicles.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleReception, models.RoleAdmin), hm.vehicleHandler.DeleteVehicle)
			}

			// User routes - admins only
			users := authed.Group("/users")
			users.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
			{
				users.POST("", hm.userHandler.CreateUser)
				users.GET("", hm.userHandler.ListUsers)
				users.GET("/:id", hm.userHandler.GetUser)
				users.PUT("/:id", hm.userHandler.UpdateUser)
				users.DELETE("/:id", hm.userHandler.DeleteUser)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "repair-tracking-service",
		})
	})

	// Unknown paths get the same JSON error shape as everything else
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Route not found",
			Details: c.Request.URL.Path,
		})
	})
}
