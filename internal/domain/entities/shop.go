package entities

import (
	"encoding/json"
	"time"
)

// Shop represents a repair shop owned by a mechanic
type Shop struct {
	ID           string          `json:"id" db:"id"`
	OwnerID      string          `json:"owner_id" db:"owner_id"`
	Name         string          `json:"name" db:"name"`
	Location     Location        `json:"location" db:"-"`
	Address      string          `json:"address" db:"address"`
	Phone        string          `json:"phone" db:"phone"`
	ImageURL     string          `json:"image_url,omitempty" db:"image_url"`
	WorkingHours json.RawMessage `json:"working_hours,omitempty" db:"working_hours"`
	Geohash      string          `json:"geohash" db:"geohash"`
	Rating       float64         `json:"rating" db:"rating"`
	ReviewCount  int             `json:"review_count" db:"review_count"`
	IsOpen       bool            `json:"is_open" db:"is_open"`
	Categories   []string        `json:"categories" db:"-"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates in degrees
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// NearbyShop is a proximity search hit annotated with its distance
type NearbyShop struct {
	*Shop
	DistanceKm float64 `json:"distance"`
}

// ShopUpdate carries the optional fields an owner may change. Rating and
// review count are deliberately absent.
type ShopUpdate struct {
	Name         *string
	Address      *string
	Phone        *string
	ImageURL     *string
	WorkingHours json.RawMessage
	Categories   []string
	// ReplaceCategories distinguishes "no change" from "clear all".
	ReplaceCategories bool
}
