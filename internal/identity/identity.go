// Package identity extracts the opaque user identity the external auth
// provider attaches to incoming requests. The session layer never sees
// tokens, only "is a user identified, and what is their id".
package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"reelfinder/models"
)

// Resolver turns an incoming request into an identity. A request without
// credentials resolves to the absent identity, not an error.
type Resolver interface {
	Resolve(r *http.Request) (models.Identity, error)
}

// NewResolver picks the resolver for the configured auth setup: bearer-JWT
// validation when a secret is configured, a plain trusted header otherwise
// (development setups sit behind the auth provider's proxy).
func NewResolver(jwtSecret string) Resolver {
	if jwtSecret != "" {
		return &JWTResolver{secret: []byte(jwtSecret)}
	}
	return &HeaderResolver{}
}

// JWTResolver validates HS256 bearer tokens minted by the auth provider
// and uses the subject claim as the opaque user id.
type JWTResolver struct {
	secret []byte
}

var _ Resolver = (*JWTResolver)(nil)

// Resolve returns the absent identity when no bearer token is present and
// an error when a token is present but invalid.
func (j *JWTResolver) Resolve(r *http.Request) (models.Identity, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return models.Identity{}, nil
	}

	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth {
		return models.Identity{}, fmt.Errorf("authorization header is not a bearer token")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return models.Identity{}, fmt.Errorf("token has no subject")
	}
	return models.Identity{UserID: subject}, nil
}

// HeaderResolver trusts an X-User-ID header set by an upstream auth proxy.
type HeaderResolver struct{}

var _ Resolver = (*HeaderResolver)(nil)

func (h *HeaderResolver) Resolve(r *http.Request) (models.Identity, error) {
	return models.Identity{UserID: r.Header.Get("X-User-ID")}, nil
}
