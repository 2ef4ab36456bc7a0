package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned for well-formed tokens past their exp claim.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, wrong algorithms, wrong issuers and malformed input.
	ErrTokenInvalid = errors.New("invalid token")
)

const DefaultTokenIssuer = "clientback"

// Claims defines the JWT claims structure. The subject carries the user's email,
// which is the principal identity for every authenticated request.
type Claims struct {
	jwt.RegisteredClaims
}

// Email returns the principal email carried in the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager. An empty issuer falls back to DefaultTokenIssuer.
func NewTokenManager(secret string, issuer string, ttl time.Duration) *TokenManager {
	if issuer == "" {
		issuer = DefaultTokenIssuer
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// TTL reports the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken creates a signed token whose subject is the given email.
func (m *TokenManager) GenerateToken(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("%w: empty subject", ErrTokenInvalid)
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise ErrTokenExpired or ErrTokenInvalid.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
