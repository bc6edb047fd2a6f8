// Package auth issues and verifies bearer tokens for the API. An empty
// signing secret disables auth entirely and every request runs as the
// development user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoToken      = errors.New("missing bearer token")
)

// DevUser is the identity requests run under when auth is disabled.
const DevUser = "dev_user"

type contextKey struct{}

// Token is the response body of the token endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Authenticator signs and verifies access tokens.
type Authenticator struct {
	secret []byte
	expiry time.Duration
}

// New creates an Authenticator. An empty secret disables verification.
func New(secret string, expiry time.Duration) *Authenticator {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &Authenticator{secret: []byte(secret), expiry: expiry}
}

// Enabled reports whether token verification is active.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Issue creates a signed access token for subject.
func (a *Authenticator) Issue(subject string) (*Token, error) {
	if !a.Enabled() {
		return nil, errors.New("auth is disabled, no signing secret configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, TokenType: "bearer"}, nil
}

// Verify parses a signed token and returns its subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware authenticates requests and stores the subject in the
// request context. When auth is disabled every request runs as DevUser.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), DevUser)))
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		subject, err := a.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
	})
}

// WithSubject stores the authenticated subject in ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKey{}, subject)
}

// Subject returns the authenticated subject, or "" when absent.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(contextKey{}).(string)
	return s
}
