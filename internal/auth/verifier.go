package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mauv0809/smashqueue/internal/players"
)

// Verifier validates bearer tokens minted by the external auth service and
// extracts the caller identity. Token issuance is not this service's job.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the shared HMAC secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Parse validates the token signature and expiry and returns the identity.
func (v *Verifier) Parse(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	role := players.Role(claims.Role)
	switch role {
	case players.RolePlayer, players.RoleOrganizer, players.RoleAdmin:
	default:
		return nil, ErrInvalidToken
	}

	return &Identity{
		PlayerID: claims.PlayerID,
		Username: claims.Username,
		Role:     role,
	}, nil
}

// Mint signs a token for the identity. It exists for the seeder and tests;
// production tokens come from the auth service.
func (v *Verifier) Mint(identity Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		PlayerID: identity.PlayerID,
		Username: identity.Username,
		Role:     string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
