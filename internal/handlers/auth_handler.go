package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier-ms/repair-tracking-service/internal/services"
	"github.com/atelier-ms/repair-tracking-service/internal/utils"
	"github.com/atelier-ms/repair-tracking-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Login authenticates with email and password and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Login attempt", "email", req.Email)

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout acknowledges the end of a session. Tokens are client-held, so the
// server has nothing to revoke; clients discard the token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.LogRequest(c, "Logout")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the identity behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, identity)
}

func (h *AuthHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid email or password",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
