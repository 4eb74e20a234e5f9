package utils

import (
	"errors" // Sentinel errors
	"fmt"    // Error wrapping
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for expired, tampered or malformed tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// DefaultTokenTTL is the lifetime of an access token when none is configured
const DefaultTokenTTL = time.Hour

// JWT Claims
type Claims struct {
	Email                string `json:"email"` // Account email
	Role                 string `json:"role"`  // Account role
	jwt.RegisteredClaims        // Standard JWT claims, Subject holds the user id
}

// UserID returns the subject of the token
func (c *Claims) UserID() string {
	return c.Subject
}

// GenerateJWT creates a signed token for the given subject
func GenerateJWT(userID, email, role, secret string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = DefaultTokenTTL // Fall back to one hour
	}
	now := time.Now()
	// Set token claims
	claims := Claims{
		Email: email, // Custom claim for email
		Role:  role,  // Custom claim for role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,                           // User ID
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
