package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ototamirci/backend/internal/api/handlers"
	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func authResult(user *entities.User) *services.AuthResult {
	return &services.AuthResult{User: user, Token: "signed.jwt.token", ExpiresAt: time.Now().Add(7 * 24 * time.Hour)}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("mechanic with shop fields", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService)

		mockService.On("Register", mock.Anything, mock.MatchedBy(func(in services.RegisterInput) bool {
			return in.Role == entities.RoleMechanic && in.Shop != nil &&
				in.Shop.Name == "Usta Motor" && in.Shop.Latitude == 41.01 && in.Shop.Phone == "05551234567"
		})).Return(authResult(&entities.User{ID: "u-1", Role: entities.RoleMechanic}), nil)

		body := `{"name":"Mehmet Usta","email":"usta@sanayi.com","password":"secret1","role":"mechanic","phone":"05551234567",
			"shop_name":"Usta Motor","address":"Sanayi 4","latitude":41.01,"longitude":28.98,"categories":["motor"]}`
		w := httptest.NewRecorder()
		handler.Register(w, newRequest(http.MethodPost, "/api/auth/register", body))

		assert.Equal(t, http.StatusCreated, w.Code)
		var data map[string]interface{}
		decodeEnvelope(t, w, &data)
		assert.Equal(t, "signed.jwt.token", data["token"])
		mockService.AssertExpectations(t)
	})

	t.Run("mechanic without complete shop fields gets no shop", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService)

		mockService.On("Register", mock.Anything, mock.MatchedBy(func(in services.RegisterInput) bool {
			return in.Shop == nil
		})).Return(authResult(&entities.User{ID: "u-2"}), nil)

		body := `{"name":"Ali","email":"ali@sanayi.com","password":"secret1","role":"mechanic","shop_name":"Ali Oto"}`
		w := httptest.NewRecorder()
		handler.Register(w, newRequest(http.MethodPost, "/api/auth/register", body))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("validation failures", func(t *testing.T) {
		testCases := []struct {
			body    string
			message string
		}{
			{`{"email":"a@b.co","password":"secret1","role":"customer"}`, "name is required"},
			{`{"name":"A","email":"not-an-email","password":"secret1","role":"customer"}`, "valid email is required"},
			{`{"name":"A","email":"a@b.co","password":"123","role":"customer"}`, "password must be at least 6 characters"},
			{`{"name":"A","email":"a@b.co","password":"secret1","role":"admin"}`, "role must be one of: customer mechanic"},
		}

		for _, tc := range testCases {
			mockService := new(MockAuthService)
			handler := handlers.NewAuthHandler(mockService)

			w := httptest.NewRecorder()
			handler.Register(w, newRequest(http.MethodPost, "/api/auth/register", tc.body))

			assert.Equal(t, http.StatusBadRequest, w.Code, tc.body)
			assert.Equal(t, tc.message, decodeEnvelope(t, w, nil).Message)
			mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockService)
		mockService.On("Register", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewConflictError("user with this email already exists"))

		w := httptest.NewRecorder()
		handler.Register(w, newRequest(http.MethodPost, "/api/auth/register",
			`{"name":"A","email":"a@b.co","password":"secret1","role":"customer"}`))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	mockService := new(MockAuthService)
	handler := handlers.NewAuthHandler(mockService)
	mockService.On("Login", mock.Anything, "ahmet@example.com", "secret1").
		Return(authResult(&entities.User{ID: "cust-1"}), nil)
	mockService.On("Login", mock.Anything, "ahmet@example.com", "wrong").
		Return(nil, apperrors.NewAuthenticationError("invalid credentials"))

	w := httptest.NewRecorder()
	handler.Login(w, newRequest(http.MethodPost, "/api/auth/login", `{"email":"ahmet@example.com","password":"secret1"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.Login(w, newRequest(http.MethodPost, "/api/auth/login", `{"email":"ahmet@example.com","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeEnvelope(t, w, nil).Message)

	w = httptest.NewRecorder()
	handler.Login(w, newRequest(http.MethodPost, "/api/auth/login", `{"email":"ahmet@example.com"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	mockService := new(MockAuthService)
	handler := handlers.NewAuthHandler(mockService)
	mockService.On("Me", mock.Anything, customer).
		Return(&entities.User{ID: customer.UserID, Email: customer.Email, PasswordHash: "$2a$10$hash"}, nil)

	w := httptest.NewRecorder()
	handler.Me(w, asCaller(newRequest(http.MethodGet, "/api/auth/me", ""), customer))

	assert.Equal(t, http.StatusOK, w.Code)
	var data map[string]interface{}
	decodeEnvelope(t, w, &data)
	assert.Equal(t, customer.UserID, data["id"])
	assert.NotContains(t, data, "password_hash")

	w = httptest.NewRecorder()
	handler.Me(w, newRequest(http.MethodGet, "/api/auth/me", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	mockService := new(MockAuthService)
	handler := handlers.NewAuthHandler(mockService)
	mockService.On("UpdateProfile", mock.Anything, customer, mock.MatchedBy(func(u entities.ProfileUpdate) bool {
		return u.Name == nil && u.PhoneVisible != nil && !*u.PhoneVisible
	})).Return(&entities.User{ID: customer.UserID}, nil)

	w := httptest.NewRecorder()
	handler.UpdateProfile(w, asCaller(newRequest(http.MethodPut, "/api/auth/profile", `{"phone_visible":false}`), customer))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.UpdateProfile(w, asCaller(newRequest(http.MethodPut, "/api/auth/profile", `{"avatar_url":"not a url"}`), customer))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNumberOfCalls(t, "UpdateProfile", 1)
}
