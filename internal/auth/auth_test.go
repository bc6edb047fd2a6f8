package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	a := New("test-secret", time.Minute)

	tok, err := a.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tok.TokenType != "bearer" {
		t.Errorf("token_type: got %q", tok.TokenType)
	}

	subject, err := a.Verify(tok.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject: got %q", subject)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a := New("secret-a", time.Minute)
	b := New("secret-b", time.Minute)

	tok, err := a.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(tok.AccessToken); err == nil {
		t.Fatal("token signed with another secret should be rejected")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	a := &Authenticator{secret: []byte("secret"), expiry: -time.Minute}
	tok, err := a.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := a.Verify(tok.AccessToken); err == nil {
		t.Fatal("expired token should be rejected")
	}
}

func TestIssueDisabled(t *testing.T) {
	a := New("", time.Minute)
	if a.Enabled() {
		t.Fatal("empty secret should disable auth")
	}
	if _, err := a.Issue("alice"); err == nil {
		t.Fatal("Issue should fail when auth is disabled")
	}
}

func TestMiddlewareDisabledRunsAsDevUser(t *testing.T) {
	a := New("", time.Minute)

	var got string
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Subject(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if got != DevUser {
		t.Errorf("subject: got %q, want %q", got, DevUser)
	}
}

func TestMiddlewareEnabled(t *testing.T) {
	a := New("secret", time.Minute)

	var got string
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Subject(r.Context())
	}))

	// No token.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d, want 401", rec.Code)
	}

	// Valid token.
	tok, err := a.Issue("bob")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: got %d", rec.Code)
	}
	if got != "bob" {
		t.Errorf("subject: got %q", got)
	}
}
