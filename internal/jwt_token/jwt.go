// Package jwttoken issues and verifies the signed access tokens. Tokens are
// stateless and self-contained; expiry is the only invalidation path.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "civicid/pkg/domain-errors"
)

// DefaultTokenTTL is the access token lifetime.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims represents the JWT claims for our access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation. The signing key is injected
// at construction; there is no fallback key.
type JWTService struct {
	signingKey []byte
	issuer     string
	expiresIn  time.Duration
	now        func() time.Time
}

func NewJWTService(signingKey, issuer string, expiresIn time.Duration) *JWTService {
	if expiresIn <= 0 {
		expiresIn = DefaultTokenTTL
	}
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		expiresIn:  expiresIn,
		now:        time.Now,
	}
}

// WithClock overrides the token clock for tests.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// GenerateAccessToken mints a signed token bound to the given user ID.
func (s *JWTService) GenerateAccessToken(userID string) (string, error) {
	now := s.now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken checks signature and expiry. Both failure modes collapse into
// a single unauthorized error so callers cannot distinguish them.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// ExtractUserIDFromToken validates the token and returns the bound user ID.
func (s *JWTService) ExtractUserIDFromToken(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
