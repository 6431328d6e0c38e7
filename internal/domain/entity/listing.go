package entity

import (
	"time"
)

const (
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusDeleted = "deleted"
)

type Listing struct {
	ID          string   `json:"id" firestore:"id"`
	OwnerID     string   `json:"owner_id" firestore:"ownerId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Category    string   `json:"category" firestore:"category"`
	Condition   string   `json:"condition" firestore:"condition"`
	Location    string   `json:"location" firestore:"location"`
	Latitude    *float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`
	Images      []string `json:"images" firestore:"images"`

	// Only ever advances: active -> sold (transaction completion) or
	// active -> deleted (owner soft delete).
	Status string `json:"status" firestore:"status"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasCoordinates reports whether the listing can take part in radius search.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// ListingWithDistance decorates a listing with its distance from a search
// origin, for radius search results.
type ListingWithDistance struct {
	*Listing
	DistanceKm float64 `json:"distance_km"`
}
