package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ototamirci/backend/internal/application/policy"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// AppointmentInput carries a booking request
type AppointmentInput struct {
	ShopID          string
	CarModel        string
	AppointmentDate time.Time
	ServiceType     string
	Note            string
}

// AppointmentService handles the booking lifecycle
type AppointmentService struct {
	repo              repositories.AppointmentRepository
	shopRepo          repositories.ShopRepository
	strictTransitions bool
	metrics           *observability.Metrics
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	shopRepo repositories.ShopRepository,
	strictTransitions bool,
	metrics *observability.Metrics,
) *AppointmentService {
	return &AppointmentService{
		repo:              repo,
		shopRepo:          shopRepo,
		strictTransitions: strictTransitions,
		metrics:           metrics,
	}
}

// Create books a pending appointment at an open shop
func (s *AppointmentService) Create(ctx context.Context, caller entities.Identity, input AppointmentInput) (*entities.Appointment, error) {
	if err := policy.Authorize(caller, policy.ActionAppointmentCreate, policy.Resource{}); err != nil {
		return nil, err
	}

	input.CarModel = strings.TrimSpace(input.CarModel)
	input.ServiceType = strings.TrimSpace(input.ServiceType)
	switch {
	case input.ShopID == "":
		return nil, apperrors.NewValidationError("valid shop_id is required")
	case input.CarModel == "":
		return nil, apperrors.NewValidationError("car model is required")
	case input.ServiceType == "":
		return nil, apperrors.NewValidationError("service type is required")
	case input.AppointmentDate.IsZero():
		return nil, apperrors.NewValidationError("valid appointment date is required")
	}

	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if !shop.IsOpen {
		return nil, apperrors.NewValidationError("shop is not accepting appointments")
	}

	now := time.Now().UTC()
	appointment := &entities.Appointment{
		ID:              uuid.New().String(),
		ShopID:          shop.ID,
		UserID:          caller.UserID,
		CarModel:        input.CarModel,
		AppointmentDate: input.AppointmentDate.UTC(),
		ServiceType:     input.ServiceType,
		Status:          entities.AppointmentStatusPending,
		Note:            strings.TrimSpace(input.Note),
		CreatedAt:       now,
		UpdatedAt:       now,
		ShopName:        shop.Name,
		ShopOwnerID:     shop.OwnerID,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	return appointment, nil
}

// Get returns an appointment visible to its creator or the shop owner
func (s *AppointmentService) Get(ctx context.Context, caller entities.Identity, id string) (*entities.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(caller, policy.ActionAppointmentRead, resourceOf(appointment)); err != nil {
		return nil, err
	}

	return appointment, nil
}

// List returns the caller's appointments: bookings for customers, incoming
// appointments of owned shops for mechanics
func (s *AppointmentService) List(ctx context.Context, caller entities.Identity) ([]*entities.Appointment, error) {
	switch caller.Role {
	case entities.RoleMechanic:
		return s.repo.ListByShopOwner(ctx, caller.UserID)
	case entities.RoleCustomer:
		return s.repo.ListByUser(ctx, caller.UserID)
	}
	return nil, apperrors.NewForbiddenError("unknown role")
}

// UpdateStatus moves an appointment to status
func (s *AppointmentService) UpdateStatus(ctx context.Context, caller entities.Identity, id string, status entities.AppointmentStatus) (*entities.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status")
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := resourceOf(appointment)
	if err := policy.Authorize(caller, policy.ActionAppointmentUpdateStatus, res); err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTransition(caller, res, appointment.Status, status, s.strictTransitions); err != nil {
		return nil, err
	}

	if !s.strictTransitions && caller.UserID != appointment.ShopOwnerID && policy.IsOwnerSideStatus(status) {
		observability.LoggerFromContext(ctx).Warn().
			Str("appointment_id", id).
			Str("user_id", caller.UserID).
			Str("from", string(appointment.Status)).
			Str("to", string(status)).
			Msg("customer set an owner-side appointment status")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	observability.RecordAppointmentTransition(ctx, s.metrics, string(appointment.Status), string(status))
	appointment.Status = status
	appointment.UpdatedAt = time.Now().UTC()
	return appointment, nil
}

// Delete removes an appointment. Only its creator may do so.
func (s *AppointmentService) Delete(ctx context.Context, caller entities.Identity, id string) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.Authorize(caller, policy.ActionAppointmentDelete, resourceOf(appointment)); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func resourceOf(appointment *entities.Appointment) policy.Resource {
	return policy.Resource{
		ShopOwnerID:       appointment.ShopOwnerID,
		AppointmentUserID: appointment.UserID,
	}
}
