package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is one of the enumerated statuses
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusRejected, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusRejected || s == AppointmentStatusCompleted
}

// Appointment represents a customer booking at a shop
type Appointment struct {
	ID              string            `json:"id" db:"id"`
	ShopID          string            `json:"shop_id" db:"shop_id"`
	UserID          string            `json:"user_id" db:"user_id"`
	CarModel        string            `json:"car_model" db:"car_model"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	ServiceType     string            `json:"service_type" db:"service_type"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Note            string            `json:"note,omitempty" db:"note"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`

	// Populated on reads
	ShopName    string `json:"shop_name,omitempty" db:"shop_name"`
	ShopOwnerID string `json:"-" db:"shop_owner_id"`
	UserName    string `json:"user_name,omitempty" db:"user_name"`
}
