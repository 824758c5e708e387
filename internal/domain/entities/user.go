package entities

import (
	"time"
)

// Role distinguishes vehicle owners from shop-owning mechanics
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleMechanic
}

// User represents an account in the system. Role never changes after creation.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	PhoneVisible bool      `json:"phone_visible" db:"phone_visible"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries the optional fields a user may change on themselves
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	PhoneVisible *bool
	AvatarURL    *string
}

// Identity is the authenticated caller as carried by a bearer credential
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
