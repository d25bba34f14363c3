// internals/middlewares/auth/claim_utils.go
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = "admin"

	LocAdminEmail = "admin_email"
	LocUserRole   = "userRole"
)

// AdminClaims is the access token payload issued by /api/auth.
type AdminClaims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Method string `json:"method"`
	jwt.RegisteredClaims
}

// SignAdminToken issues an HS256 token for email valid for ttl.
func SignAdminToken(secret, email, method string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	exp := now.Add(ttl)
	claims := AdminClaims{
		Email:  strings.ToLower(email),
		Role:   RoleAdmin,
		Method: method,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(email),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-30 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return tok, exp, err
}

// ParseAdminToken verifies signature, algorithm and expiry.
func ParseAdminToken(secret, raw string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
