package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ototamirci/backend/internal/api/response"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/providers"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated caller
func WithIdentity(ctx context.Context, identity entities.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller stored by Authenticate
func IdentityFromContext(ctx context.Context) (entities.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(entities.Identity)
	return identity, ok
}

// Authenticate requires a valid bearer credential and stores the caller's
// identity on the request context
func Authenticate(tokens providers.TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Access token required")
				return
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				response.FromError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
