package entities

import "time"

// Review is a customer's rating of a shop. At most one exists per (shop, user).
type Review struct {
	ID        string    `json:"id" db:"id"`
	ShopID    string    `json:"shop_id" db:"shop_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	UserName string `json:"user_name,omitempty" db:"user_name"`
}

// MinRating and MaxRating bound Review.Rating
const (
	MinRating = 1
	MaxRating = 5
)

// RatingStats is the raw aggregate of a shop's review set
type RatingStats struct {
	Sum   int
	Count int
}

// ShopReviews is the list view of a shop's reviews
type ShopReviews struct {
	Reviews       []*Review `json:"reviews"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}
