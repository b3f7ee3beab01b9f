package services

import (
	"fmt"
	"time"

	"finplan/backend/models"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

var jwtSecret []byte

// InitializeAuth sets the signing secret for session tokens.
func InitializeAuth(secret string) {
	jwtSecret = []byte(secret)
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against its stored hash. A
// mismatch is an AuthError, indistinguishable from an unknown username at
// the handler boundary.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return &models.AuthError{Reason: "invalid credentials"}
	}
	return nil
}

// IssueToken signs a session token carrying the owner id as subject.
func IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the owner id it carries.
// Expired, malformed or wrongly signed tokens all surface as AuthError.
func ParseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", &models.AuthError{Reason: "invalid or expired token"}
	}
	if claims.Subject == "" {
		return "", &models.AuthError{Reason: "token carries no subject"}
	}
	return claims.Subject, nil
}
