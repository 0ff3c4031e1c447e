package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

const identityContextKey = "identity"

// JWTAuthMiddleware restores the authenticated identity from the bearer
// token on every request.
type JWTAuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewJWTAuthMiddleware(tokens *auth.TokenManager) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{tokens: tokens}
}

// AuthMiddleware rejects requests without a valid session token. A missing,
// malformed or expired token is always a 401, never a server error.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
				Details: "authorization header missing",
			})
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
				Details: "invalid authorization header format",
			})
			return
		}

		identity, err := m.tokens.Parse(tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
				Details: "invalid or expired token",
			})
			return
		}

		c.Set(identityContextKey, identity)
		c.Set("user_id", identity.ID)
		c.Set("user_role", identity.Role)

		c.Next()
	}
}

// RequireRoleMiddleware checks that the authenticated identity holds one of
// the given roles. Admins pass every check.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentityFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			return
		}

		hasRequiredRole := false
		for _, required := range requiredRoles {
			if identity.Role == required || identity.Role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// GetIdentityFromContext extracts the authenticated identity from the Gin
// context.
func GetIdentityFromContext(c *gin.Context) (*models.Identity, error) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, fmt.Errorf("identity not found in context")
	}

	identity, ok := value.(*models.Identity)
	if !ok {
		return nil, fmt.Errorf("invalid identity type in context")
	}

	return identity, nil
}
