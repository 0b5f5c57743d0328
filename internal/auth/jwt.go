package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims in a service token.
type Claims struct {
	Subject string `json:"sub_name,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// RoleService is the only role accepted on the scoring endpoint.
const RoleService = "service"

// GenerateServiceToken generates a token a client can use against the
// scoring endpoint. Used by deployments to mint credentials out of band.
func GenerateServiceToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Subject: subject,
		Role:    RoleService,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a token and returns the claims.
func ValidateToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
