package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/providers"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// Claims is the bearer credential payload
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider issues and verifies HS256 tokens
type JWTProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTProvider creates a token provider signing with secret
func NewJWTProvider(secret, issuer string, ttl time.Duration) providers.TokenProvider {
	return &JWTProvider{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for identity, returning it with its expiry
func (p *JWTProvider) Issue(identity entities.Identity) (string, time.Time, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)

	claims := Claims{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError("failed to sign token", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry and returns the carried identity
func (p *JWTProvider) Verify(token string) (*entities.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAuthenticationError("token expired")
		}
		return nil, apperrors.NewAuthenticationError("invalid token")
	}
	if !parsed.Valid {
		return nil, apperrors.NewAuthenticationError("invalid token")
	}

	role := entities.Role(claims.Role)
	if claims.ID == "" || !role.Valid() {
		return nil, apperrors.NewAuthenticationError(fmt.Sprintf("malformed token claims for %q", claims.Email))
	}

	return &entities.Identity{UserID: claims.ID, Email: claims.Email, Role: role}, nil
}
