package jwt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/icaliwag/pasokit/internal/config"
	"github.com/icaliwag/pasokit/internal/pkg/security"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// CustomClaims represents JWT with custom claims.
type CustomClaims struct {
	jwt.RegisteredClaims
}

// golangJWTSigner implements the Signer interface using the golang-jwt
// library. The signing key is fixed at construction, never mutated.
type golangJWTSigner struct {
	method jwt.SigningMethod
	key    string
	jtiLen uint32
	issuer string

	mu      sync.Mutex
	revoked map[string]time.Time
}

var _ Signer = (*golangJWTSigner)(nil)

// NewGolangJWTSigner creates a Signer with the provided JWT config and
// process-wide signing key.
func NewGolangJWTSigner(cfg *config.JWT, key string) Signer {
	return &golangJWTSigner{
		method:  jwt.SigningMethodHS256,
		key:     key,
		jtiLen:  cfg.JTILength,
		issuer:  cfg.Issuer,
		revoked: make(map[string]time.Time),
	}
}

// Sign generates a signed token binding the subject and an expiry ttl from
// now.
func (s *golangJWTSigner) Sign(sub string, ttl time.Duration) (string, error) {
	jti, err := security.GenerateRandomBytesURLEncoded(s.jtiLen)
	if err != nil {
		return "", fmt.Errorf("generate jti with length %d: %w", s.jtiLen, err)
	}

	now := time.Now()
	claims := &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   sub,
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	signedToken, err := token.SignedString([]byte(s.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signedToken, nil
}

// Verify parses and validates a token string and returns the bound Claims.
// Tampering, a wrong key, expiry, or revocation all yield an error, never a
// partial subject.
func (s *golangJWTSigner) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(s.key), nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse with claims: %w", err)
	}

	customClaims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, fmt.Errorf("unknown claims type: %T", token.Claims)
	}

	if s.isRevoked(customClaims.ID) {
		return nil, ErrTokenRevoked
	}

	return &Claims{UserID: customClaims.Subject}, nil
}

// Revoke adds a valid token's jti to the in-process revocation set. An
// unparsable token is ignored since it can never verify anyway.
func (s *golangJWTSigner) Revoke(tokenString string) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(s.key), nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil {
		return
	}

	customClaims, ok := token.Claims.(*CustomClaims)
	if !ok || customClaims.ID == "" {
		return
	}

	expiry := time.Now()
	if customClaims.ExpiresAt != nil {
		expiry = customClaims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.revoked[customClaims.ID] = expiry
}

func (s *golangJWTSigner) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.revoked[jti]
	return found
}

// pruneLocked drops entries whose tokens have expired on their own. Callers
// must hold mu.
func (s *golangJWTSigner) pruneLocked() {
	now := time.Now()
	for jti, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, jti)
		}
	}
}
