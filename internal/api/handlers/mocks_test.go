package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ototamirci/backend/internal/api/middleware"
	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customer = entities.Identity{UserID: "cust-1", Email: "ahmet@example.com", Role: entities.RoleCustomer}
	mechanic = entities.Identity{UserID: "mech-1", Email: "usta@sanayi.com", Role: entities.RoleMechanic}
)

const (
	shopUUID             = "6f1c2a9e-3b7d-4c1e-9a55-0d2f8e4b7c10"
	otherShopUUID        = "0b8e7c1d-2f4a-4d6b-8c9e-1a2b3c4d5e6f"
	missingShopUUID      = "9d3f5a7b-1c2e-4f60-8a9b-7c6d5e4f3a2b"
	appointmentUUID      = "3c5e7a9b-2d4f-4a6c-9e8d-5b7a9c1e3f50"
	otherAppointmentUUID = "8a6c4e2f-9b7d-4c5e-a3f1-2d4b6a8c0e9f"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asCaller(req *http.Request, caller entities.Identity) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), caller))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// MockShopService is a mock implementation of handlers.ShopService
type MockShopService struct {
	mock.Mock
}

func (m *MockShopService) SearchNearby(ctx context.Context, q services.NearbyQuery) ([]*entities.NearbyShop, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.NearbyShop), args.Error(1)
}

func (m *MockShopService) GetShop(ctx context.Context, id string) (*entities.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Shop), args.Error(1)
}

func (m *MockShopService) CreateShop(ctx context.Context, caller entities.Identity, input services.ShopInput) (*entities.Shop, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Shop), args.Error(1)
}

func (m *MockShopService) UpdateShop(ctx context.Context, caller entities.Identity, id string, update entities.ShopUpdate) (*entities.Shop, error) {
	args := m.Called(ctx, caller, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Shop), args.Error(1)
}

func (m *MockShopService) SetAvailability(ctx context.Context, caller entities.Identity, id string, isOpen bool) (*entities.Shop, error) {
	args := m.Called(ctx, caller, id, isOpen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Shop), args.Error(1)
}

func (m *MockShopService) DeleteShop(ctx context.Context, caller entities.Identity, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

// MockReviewService is a mock implementation of handlers.ReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(ctx context.Context, caller entities.Identity, shopID string, rating int, comment string) (*entities.Review, error) {
	args := m.Called(ctx, caller, shopID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context, shopID string) (*entities.ShopReviews, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShopReviews), args.Error(1)
}

// MockAppointmentService is a mock implementation of handlers.AppointmentService
type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Create(ctx context.Context, caller entities.Identity, input services.AppointmentInput) (*entities.Appointment, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Get(ctx context.Context, caller entities.Identity, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context, caller entities.Identity) ([]*entities.Appointment, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) UpdateStatus(ctx context.Context, caller entities.Identity, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	args := m.Called(ctx, caller, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Delete(ctx context.Context, caller entities.Identity, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

// MockAuthService is a mock implementation of handlers.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, caller entities.Identity) (*entities.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, caller entities.Identity, update entities.ProfileUpdate) (*entities.User, error) {
	args := m.Called(ctx, caller, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}
