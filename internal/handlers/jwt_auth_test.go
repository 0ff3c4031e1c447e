package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier-ms/repair-tracking-service/internal/auth"
	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

func testRouter(t *testing.T, tokens *auth.TokenManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	middleware := NewJWTAuthMiddleware(tokens)

	router := gin.New()
	authed := router.Group("", middleware.AuthMiddleware())
	authed.GET("/protected", func(c *gin.Context) {
		identity, err := GetIdentityFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "identity missing"})
			return
		}
		c.JSON(http.StatusOK, identity)
	})
	authed.POST("/mutation", middleware.RequireRoleMiddleware(models.RoleReception, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	authed.GET("/admin-only", middleware.RequireRoleMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return router
}

func issueToken(t *testing.T, tokens *auth.TokenManager, role models.UserRole) string {
	t.Helper()

	token, _, err := tokens.Generate(&models.Identity{
		ID:       "u-1",
		Email:    "staff@atelier.tn",
		Name:     "Cyrine",
		LastName: "Ben Salah",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return token
}

func doRequest(router *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := testRouter(t, tokens)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/protected", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage token is a 401, not a server error", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/protected", "not.a.token")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := auth.NewTokenManager("test-secret", -time.Minute)
		w := doRequest(router, http.MethodGet, "/protected", issueToken(t, expired, models.RoleAdmin))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("valid token restores identity", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/protected", issueToken(t, tokens, models.RoleViewer))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestRequireRoleMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := testRouter(t, tokens)

	tests := []struct {
		name   string
		role   models.UserRole
		method string
		path   string
		want   int
	}{
		{"viewer cannot mutate", models.RoleViewer, http.MethodPost, "/mutation", http.StatusForbidden},
		{"reception can mutate", models.RoleReception, http.MethodPost, "/mutation", http.StatusNoContent},
		{"admin can mutate", models.RoleAdmin, http.MethodPost, "/mutation", http.StatusNoContent},
		{"reception is not admin", models.RoleReception, http.MethodGet, "/admin-only", http.StatusForbidden},
		{"admin reaches admin routes", models.RoleAdmin, http.MethodGet, "/admin-only", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.method, tt.path, issueToken(t, tokens, tt.role))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
