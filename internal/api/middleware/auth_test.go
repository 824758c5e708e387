package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ototamirci/backend/internal/api/middleware"
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	identity *entities.Identity
	err      error
	seen     string
}

func (s *stubTokens) Issue(entities.Identity) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubTokens) Verify(token string) (*entities.Identity, error) {
	s.seen = token
	return s.identity, s.err
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestAuthenticate_StoresIdentity(t *testing.T) {
	tokens := &stubTokens{identity: &entities.Identity{UserID: "mech-1", Email: "usta@sanayi.com", Role: entities.RoleMechanic}}

	var got entities.Identity
	handler := middleware.Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc.def.ghi", tokens.seen)
	assert.Equal(t, "mech-1", got.UserID)
	assert.Equal(t, entities.RoleMechanic, got.Role)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	called := false
	handler := middleware.Authenticate(&stubTokens{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	for _, header := range []string{"", "Bearer", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		body := envelope(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Access token required", body["message"])
	}
	assert.False(t, called)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tokens := &stubTokens{err: apperrors.NewAuthenticationError("token expired")}
	handler := middleware.Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", envelope(t, w)["message"])
}

func TestIdentityFromContext_Missing(t *testing.T) {
	_, ok := middleware.IdentityFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
