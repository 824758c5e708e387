package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/entities"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Create(ctx context.Context, caller entities.Identity, input services.AppointmentInput) (*entities.Appointment, error)
	Get(ctx context.Context, caller entities.Identity, id string) (*entities.Appointment, error)
	List(ctx context.Context, caller entities.Identity) ([]*entities.Appointment, error)
	UpdateStatus(ctx context.Context, caller entities.Identity, id string, status entities.AppointmentStatus) (*entities.Appointment, error)
	Delete(ctx context.Context, caller entities.Identity, id string) error
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

type createAppointmentRequest struct {
	ShopID          string `json:"shop_id" validate:"required,uuid"`
	CarModel        string `json:"car_model" validate:"required"`
	AppointmentDate string `json:"appointment_date" validate:"required"`
	ServiceType     string `json:"service_type" validate:"required"`
	Note            string `json:"note" validate:"max=2000"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed rejected completed"`
}

// appointmentDateLayouts are the ISO 8601 forms accepted for appointment_date
var appointmentDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseAppointmentDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("valid appointment date is required")
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	appointments, err := h.service.List(r.Context(), caller)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointments)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
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

	appointment, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req createAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	date, err := parseAppointmentDate(req.AppointmentDate)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	appointment, err := h.service.Create(r.Context(), caller, services.AppointmentInput{
		ShopID:          req.ShopID,
		CarModel:        req.CarModel,
		AppointmentDate: date,
		ServiceType:     req.ServiceType,
		Note:            req.Note,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// UpdateStatus handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), caller, id, entities.AppointmentStatus(req.Status))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Appointment deleted successfully")
}
