package devbackend

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const issuer = "wash24-devbackend"

// Tokens issues and verifies HS256 bearer tokens and tracks revocations.
type Tokens struct {
	secret []byte
	expiry time.Duration

	revoked map[string]time.Time // jti to expiry
	mu      sync.RWMutex
}

func NewTokens(secret string, expiry time.Duration) *Tokens {
	return &Tokens{
		secret:  []byte(secret),
		expiry:  expiry,
		revoked: make(map[string]time.Time),
	}
}

// Issue signs a token for the user ID and role.
func (t *Tokens) Issue(userID, role string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":  issuer,
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(t.expiry).Unix(),
		"jti":  uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify parses the raw token and returns its claims. Expired, revoked, or
// malformed tokens return ErrUnauthorized.
func (t *Tokens) Verify(raw string) (jwtlib.MapClaims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims := jwtlib.MapClaims{}
	token, err := jwtlib.ParseWithClaims(raw, claims, t.verificationKey,
		jwtlib.WithIssuer(issuer),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.Join(apperrors.ErrUnauthorized, err)
	}

	if jti, _ := claims["jti"].(string); t.IsRevoked(jti) {
		return nil, apperrors.Wrapf(apperrors.ErrUnauthorized, "token %s revoked", jti)
	}
	return claims, nil
}

// Revoke invalidates a previously issued token.
func (t *Tokens) Revoke(raw string) error {
	claims := jwtlib.MapClaims{}
	if _, err := jwtlib.ParseWithClaims(raw, claims, t.verificationKey, jwtlib.WithoutClaimsValidation()); err != nil {
		return fmt.Errorf("[Tokens Revoke] %w", err)
	}
	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("[Tokens Revoke] token has no expiry")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = exp.Time
	return nil
}

func (t *Tokens) IsRevoked(jti string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, exists := t.revoked[jti]
	return exists
}

// Cleanup drops revocations for tokens that have expired anyway.
func (t *Tokens) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := NowTimeFunc()
	for jti, exp := range t.revoked {
		if now.After(exp) {
			delete(t.revoked, jti)
		}
	}
}

func (t *Tokens) verificationKey(token *jwtlib.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return t.secret, nil
}
