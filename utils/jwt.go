package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleOwner    = "owner"
	RoleEmployee = "employee"
	RoleGuest    = "guest"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var JWTSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Development fallback, override in production via .env
		secret = "TablesideDevSecret2024"
	}
	JWTSecret = []byte(secret)
}

type CustomClaims struct {
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
	TableNumber *uint  `json:"table_number,omitempty"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a short-lived token for staff or guests.
// tableNumber is only set for guests.
func GenerateAccessToken(userID uint, role string, tableNumber *uint) (string, error) {
	return signToken(&CustomClaims{
		UserID:      userID,
		Role:        role,
		TableNumber: tableNumber,
		TokenType:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tableside",
		},
	})
}

// GenerateRefreshToken issues the long-lived guest credential. The token is
// additionally persisted on the guest row; presenting a token that no longer
// matches the stored one fails, which is how table-token rotation revokes
// live guests.
func GenerateRefreshToken(guestID uint, tableNumber uint) (string, time.Time, error) {
	expiresAt := time.Now().Add(RefreshTokenTTL)
	token, err := signToken(&CustomClaims{
		UserID:      guestID,
		Role:        RoleGuest,
		TableNumber: &tableNumber,
		TokenType:   TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique ID so back-to-back issuances never collide; rotation
			// relies on old and new tokens being distinct.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tableside",
		},
	})
	return token, expiresAt, err
}

func signToken(claims *CustomClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
