package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/entities"
)

// AuthService is the account surface the auth handler needs
type AuthService interface {
	Register(ctx context.Context, input services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Me(ctx context.Context, caller entities.Identity) (*entities.User, error)
	UpdateProfile(ctx context.Context, caller entities.Identity, update entities.ProfileUpdate) (*entities.User, error)
}

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	Name         string          `json:"name" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         string          `json:"role" validate:"required,oneof=customer mechanic"`
	Phone        string          `json:"phone"`
	PhoneVisible *bool           `json:"phone_visible"`
	ShopName     string          `json:"shop_name"`
	Address      string          `json:"address"`
	Latitude     *float64        `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64        `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Categories   []string        `json:"categories"`
	WorkingHours json.RawMessage `json:"working_hours"`
}

// shopInput returns the embedded shop when every required shop field is present
func (req registerRequest) shopInput() *services.ShopInput {
	if strings.TrimSpace(req.ShopName) == "" || strings.TrimSpace(req.Address) == "" ||
		req.Latitude == nil || req.Longitude == nil {
		return nil
	}
	return &services.ShopInput{
		Name:         req.ShopName,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Address:      req.Address,
		Phone:        req.Phone,
		WorkingHours: req.WorkingHours,
		Categories:   req.Categories,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Phone        *string `json:"phone"`
	PhoneVisible *bool   `json:"phone_visible"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,url"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	input := services.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         entities.Role(req.Role),
		Phone:        req.Phone,
		PhoneVisible: req.PhoneVisible,
	}
	if input.Role == entities.RoleMechanic {
		input.Shop = req.shopInput()
	}

	result, err := h.service.Register(r.Context(), input)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.service.Me(r.Context(), caller)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), caller, entities.ProfileUpdate{
		Name:         req.Name,
		Phone:        req.Phone,
		PhoneVisible: req.PhoneVisible,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
