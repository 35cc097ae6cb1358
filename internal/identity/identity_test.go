package identity

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func requestWithAuth(auth string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/api/session", nil)
	if auth != "" {
		r.Header.Set("Authorization", auth)
	}
	return r
}

func TestJWTResolverExtractsSubject(t *testing.T) {
	resolver := NewResolver(testSecret)

	id, err := resolver.Resolve(requestWithAuth("Bearer " + mintToken(t, testSecret, "user-1")))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", id.UserID)
	}
	if !id.Present() {
		t.Fatalf("expected identity to be present")
	}
}

func TestJWTResolverMissingHeaderIsAnonymous(t *testing.T) {
	resolver := NewResolver(testSecret)

	id, err := resolver.Resolve(requestWithAuth(""))
	if err != nil {
		t.Fatalf("expected no error for missing header, got %v", err)
	}
	if id.Present() {
		t.Fatalf("expected absent identity, got %q", id.UserID)
	}
}

func TestJWTResolverRejectsWrongSecret(t *testing.T) {
	resolver := NewResolver(testSecret)

	_, err := resolver.Resolve(requestWithAuth("Bearer " + mintToken(t, "other-secret", "user-1")))
	if err == nil {
		t.Fatalf("expected error for token signed with wrong secret")
	}
}

func TestJWTResolverRejectsNonBearer(t *testing.T) {
	resolver := NewResolver(testSecret)

	_, err := resolver.Resolve(requestWithAuth("Basic dXNlcjpwYXNz"))
	if err == nil {
		t.Fatalf("expected error for non-bearer authorization")
	}
}

func TestJWTResolverRejectsMissingSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	resolver := NewResolver(testSecret)
	if _, err := resolver.Resolve(requestWithAuth("Bearer " + signed)); err == nil {
		t.Fatalf("expected error for token without subject")
	}
}

func TestHeaderResolverTrustsProxyHeader(t *testing.T) {
	resolver := NewResolver("")

	r := requestWithAuth("")
	r.Header.Set("X-User-ID", "user-2")

	id, err := resolver.Resolve(r)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id.UserID != "user-2" {
		t.Fatalf("expected user-2, got %q", id.UserID)
	}

	id, err = resolver.Resolve(requestWithAuth(""))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id.Present() {
		t.Fatalf("expected absent identity without header")
	}
}
