package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/domain/repositories"
	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/ototamirci/backend/pkg/errors"
)

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":               appointment.ID,
		"shop_id":          appointment.ShopID,
		"user_id":          appointment.UserID,
		"car_model":        appointment.CarModel,
		"appointment_date": appointment.AppointmentDate,
		"service_type":     appointment.ServiceType,
		"status":           string(appointment.Status),
		"note":             appointment.Note,
		"created_at":       appointment.CreatedAt,
		"updated_at":       appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.Executor(ctx).ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError(fmt.Sprintf("shop with id %s not found", appointment.ShopID))
		}
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment with its shop and customer names
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.selectAppointments().Where(goqu.Ex{"a.id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.Executor(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// UpdateStatus writes a new status
func (a *AppointmentAdapter) UpdateStatus(ctx context.Context, id string, status entities.AppointmentStatus) error {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{"status": string(status), "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.execAffectingOne(ctx, query, args, id, "failed to update appointment status")
}

// Delete removes an appointment
func (a *AppointmentAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("appointments").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.execAffectingOne(ctx, query, args, id, "failed to delete appointment")
}

// ListByUser retrieves a customer's appointments, latest date first
func (a *AppointmentAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"a.user_id": userID})
}

// ListByShopOwner retrieves appointments for the shops a mechanic owns
func (a *AppointmentAdapter) ListByShopOwner(ctx context.Context, ownerID string) ([]*entities.Appointment, error) {
	return a.list(ctx, goqu.Ex{"s.owner_id": ownerID})
}

func (a *AppointmentAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Appointment, error) {
	query, args, err := a.selectAppointments().
		Where(where).
		Order(goqu.I("a.appointment_date").Desc(), goqu.I("a.id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := []*entities.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating appointments", err)
	}

	return appointments, nil
}

func (a *AppointmentAdapter) selectAppointments() *goqu.SelectDataset {
	return a.db.Select(
		goqu.I("a.id"), goqu.I("a.shop_id"), goqu.I("a.user_id"), goqu.I("a.car_model"),
		goqu.I("a.appointment_date"), goqu.I("a.service_type"), goqu.I("a.status"),
		goqu.I("a.note"), goqu.I("a.created_at"), goqu.I("a.updated_at"),
		goqu.I("s.name"), goqu.I("s.owner_id"), goqu.I("u.name"),
	).From(goqu.T("appointments").As("a")).
		InnerJoin(goqu.T("shops").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("a.shop_id")))).
		InnerJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("a.user_id"))))
}

func (a *AppointmentAdapter) execAffectingOne(ctx context.Context, query string, args []any, id, failure string) error {
	result, err := a.client.Executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(failure, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}

	return nil
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var status string
	err := row.Scan(
		&appointment.ID,
		&appointment.ShopID,
		&appointment.UserID,
		&appointment.CarModel,
		&appointment.AppointmentDate,
		&appointment.ServiceType,
		&status,
		&appointment.Note,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&appointment.ShopName,
		&appointment.ShopOwnerID,
		&appointment.UserName,
	)
	if err != nil {
		return nil, err
	}
	appointment.Status = entities.AppointmentStatus(status)
	return appointment, nil
}
