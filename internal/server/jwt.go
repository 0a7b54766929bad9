package server

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/asealnassar/crna-prep-hub/internal/server/middleware"
)

// Claims are the token claims issued by the external identity provider.
// The subject carries the user id; email rides along for profile creation.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates tokens signed by the identity provider with a
// shared HS256 secret. This service never issues tokens.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given shared secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// ValidateToken parses and verifies a token and returns the caller identity.
func (v *JWTVerifier) ValidateToken(tokenString string) (middleware.Identity, error) {
	if tokenString == "" {
		return middleware.Identity{}, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return middleware.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return middleware.Identity{}, fmt.Errorf("token is not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return middleware.Identity{}, fmt.Errorf("token subject is not a user id: %w", err)
	}

	return middleware.Identity{UserID: userID, Email: claims.Email}, nil
}
