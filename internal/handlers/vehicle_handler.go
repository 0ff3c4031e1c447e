package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/services"
	"github.com/atelier-ms/repair-tracking-service/internal/utils"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

type VehicleHandler struct {
	BaseHandler
	service services.VehicleService
	export  services.ExportService
}

func NewVehicleHandler(service services.VehicleService, export services.ExportService, logger utils.Logger) *VehicleHandler {
	return &VehicleHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// ===== CRUD ENDPOINTS =====

// CreateVehicle registers an incoming vehicle.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating vehicle", "matricule", req.Matricule)

	resp, err := h.service.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetVehicle returns one repair record with its full status history.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListVehicles returns the filtered repair record list, newest arrivals
// first.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateVehicle edits a record and optionally moves it to a new status.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req services.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating vehicle", "vehicle_id", id)

	resp, err := h.service.Update(c.Request.Context(), id, &req, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteVehicle removes a record and its history.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting vehicle", "vehicle_id", id)

	if err := h.service.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportVehicles streams the filtered list as an xlsx download.
func (h *VehicleHandler) ExportVehicles(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting vehicles")

	data, err := h.export.ExportVehicles(c.Request.Context(), filter, identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("vehicules-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== HELPERS =====

func (h *VehicleHandler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid vehicle id",
			Details: c.Param("id"),
		})
		return 0, false
	}
	return uint(id), true
}

func (h *VehicleHandler) parseFilter(c *gin.Context) (services.VehicleFilter, bool) {
	filter := services.VehicleFilter{
		Query:  c.Query("query"),
		Marque: c.Query("marque"),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.RepairStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Unknown status filter",
				Details: raw,
			})
			return services.VehicleFilter{}, false
		}
		filter.Status = &status
	}

	return filter, true
}

func (h *VehicleHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
	case errors.Is(err, services.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Vehicle not found",
		})
	case errors.Is(err, services.ErrMatriculeTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "A vehicle with this matricule already exists",
		})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
