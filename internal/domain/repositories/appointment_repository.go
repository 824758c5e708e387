package repositories

import (
	"context"

	"github.com/ototamirci/backend/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment with shop and user names populated
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// UpdateStatus writes a new status
	UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error

	// Delete removes an appointment
	Delete(ctx context.Context, id string) error

	// ListByUser retrieves a customer's appointments
	ListByUser(ctx context.Context, userID string) ([]*entities.Appointment, error)

	// ListByShopOwner retrieves appointments for shops owned by a mechanic
	ListByShopOwner(ctx context.Context, ownerID string) ([]*entities.Appointment, error)
}
