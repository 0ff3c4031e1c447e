package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

// ErrInvalidToken is returned for any token that fails parsing, signature
// verification or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies the HS256 session tokens handed to
// clients at login.
type TokenManager struct {
	secretKey string
	tokenTTL  time.Duration
}

func NewTokenManager(secret string, tokenTTL time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: secret,
		tokenTTL:  tokenTTL,
	}
}

// Claims carries the authenticated identity inside the token so requests can
// be attributed without a user lookup.
type Claims struct {
	UserID   string          `json:"user_id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	LastName string          `json:"last_name"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (m *TokenManager) Generate(identity *models.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.tokenTTL)

	claims := &Claims{
		UserID:   identity.ID,
		Email:    identity.Email,
		Name:     identity.Name,
		LastName: identity.LastName,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Parse verifies a token and returns the identity it carries. Tokens signed
// with an unexpected method, expired tokens and tokens with an unrecognized
// role all fail with ErrInvalidToken.
func (m *TokenManager) Parse(tokenStr string) (*models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &models.Identity{
		ID:       claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		LastName: claims.LastName,
		Role:     claims.Role,
	}, nil
}
