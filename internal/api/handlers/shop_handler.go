package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// Search radius bounds in kilometers
const (
	DefaultRadiusKm = 10.0
	MinRadiusKm     = 1.0
	MaxRadiusKm     = 100.0
)

// ShopService is the shop surface the shop handler needs
type ShopService interface {
	SearchNearby(ctx context.Context, q services.NearbyQuery) ([]*entities.NearbyShop, error)
	GetShop(ctx context.Context, id string) (*entities.Shop, error)
	CreateShop(ctx context.Context, caller entities.Identity, input services.ShopInput) (*entities.Shop, error)
	UpdateShop(ctx context.Context, caller entities.Identity, id string, update entities.ShopUpdate) (*entities.Shop, error)
	SetAvailability(ctx context.Context, caller entities.Identity, id string, isOpen bool) (*entities.Shop, error)
	DeleteShop(ctx context.Context, caller entities.Identity, id string) error
}

// ShopHandler handles shop discovery and management requests
type ShopHandler struct {
	service ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(service ShopService) *ShopHandler {
	return &ShopHandler{service: service}
}

type createShopRequest struct {
	Name         string          `json:"name" validate:"required"`
	Latitude     *float64        `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    *float64        `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address      string          `json:"address" validate:"required"`
	Phone        string          `json:"phone" validate:"required"`
	ImageURL     string          `json:"image_url" validate:"omitempty,url"`
	WorkingHours json.RawMessage `json:"working_hours"`
	Categories   []string        `json:"categories" validate:"required"`
}

type updateShopRequest struct {
	Name         *string         `json:"name" validate:"omitempty,min=1"`
	Address      *string         `json:"address" validate:"omitempty,min=1"`
	Phone        *string         `json:"phone" validate:"omitempty,min=1"`
	ImageURL     *string         `json:"image_url"`
	WorkingHours json.RawMessage `json:"working_hours"`
	Categories   *[]string       `json:"categories"`
}

type availabilityRequest struct {
	IsOpen *bool `json:"is_open" validate:"required"`
}

// SearchNearby handles GET /api/shops?lat=&lng=&radius=&category=
func (h *ShopHandler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	query, err := parseNearbyQuery(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	shops, err := h.service.SearchNearby(r.Context(), query)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, shops)
}

func parseNearbyQuery(r *http.Request) (services.NearbyQuery, error) {
	values := r.URL.Query()

	lat, err := parseFinite(values.Get("lat"))
	if err != nil || lat < -90 || lat > 90 {
		return services.NearbyQuery{}, apperrors.NewValidationError("valid latitude is required")
	}
	lng, err := parseFinite(values.Get("lng"))
	if err != nil || lng < -180 || lng > 180 {
		return services.NearbyQuery{}, apperrors.NewValidationError("valid longitude is required")
	}

	radius := DefaultRadiusKm
	if raw := strings.TrimSpace(values.Get("radius")); raw != "" {
		radius, err = parseFinite(raw)
		if err != nil || radius < MinRadiusKm || radius > MaxRadiusKm {
			return services.NearbyQuery{}, apperrors.NewValidationError("radius must be between 1 and 100")
		}
	}

	return services.NearbyQuery{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radius,
		Category:  values.Get("category"),
	}, nil
}

// parseFinite rejects the NaN and Inf spellings strconv accepts
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// GetShop handles GET /api/shops/{id}
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	shop, err := h.service.GetShop(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, shop)
}

// CreateShop handles POST /api/shops
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req createShopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	shop, err := h.service.CreateShop(r.Context(), caller, services.ShopInput{
		Name:         req.Name,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Address:      req.Address,
		Phone:        req.Phone,
		ImageURL:     req.ImageURL,
		WorkingHours: req.WorkingHours,
		Categories:   req.Categories,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, shop)
}

// UpdateShop handles PUT /api/shops/{id}
func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req updateShopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	update := entities.ShopUpdate{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		ImageURL: req.ImageURL,
	}
	if len(req.WorkingHours) > 0 && string(req.WorkingHours) != "null" {
		update.WorkingHours = req.WorkingHours
	}
	if req.Categories != nil {
		update.Categories = *req.Categories
		update.ReplaceCategories = true
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	shop, err := h.service.UpdateShop(r.Context(), caller, id, update)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, shop)
}

// SetAvailability handles PATCH /api/shops/{id}/availability
func (h *ShopHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req availabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	shop, err := h.service.SetAvailability(r.Context(), caller, id, *req.IsOpen)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, shop)
}

// DeleteShop handles DELETE /api/shops/{id}
func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.service.DeleteShop(r.Context(), caller, id); err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Shop deleted successfully")
}
