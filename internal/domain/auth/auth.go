// Package auth holds the credential and session token primitives.
// Tokens are self-contained HS256 JWTs, so validating a session never
// touches the database.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// RoleChangePassword marks the restricted token issued to an
	// employee who has never set a password. It grants nothing beyond
	// the change-password endpoint and expires quickly.
	RoleChangePassword = "change_password"

	SessionTTL    = 8 * time.Hour
	RestrictedTTL = 10 * time.Minute

	// MinPasswordLength gates change-password before any hash is
	// computed.
	MinPasswordLength = 4
)

type Claims struct {
	EmployeeID string `json:"uid"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.EmployeeID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ValidateNewPassword applies the password policy without touching the
// stored hash.
func ValidateNewPassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 4 characters")
	}
	return nil
}
