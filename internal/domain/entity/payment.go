package entity

import (
	"time"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"
	PaymentStatusCompleted = "completed"
)

// PendingListingVersion identifies the current shape of the pending listing
// payload stored inside a payment intent.
const PendingListingVersion = 1

// PendingListing is the listing content captured at intent creation and
// materialized once the fee payment is confirmed.
type PendingListing struct {
	Version     int      `json:"version" firestore:"version"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Category    string   `json:"category" firestore:"category"`
	Condition   string   `json:"condition" firestore:"condition"`
	Location    string   `json:"location" firestore:"location"`
	Latitude    *float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`
	Images      []string `json:"images" firestore:"images"`
}

// PaymentIntent records a listing-fee authorization attempt. A listing is
// created for an intent at most once.
type PaymentIntent struct {
	ID              string         `json:"id" firestore:"id"`
	GatewayIntentID string         `json:"gateway_intent_id" firestore:"gatewayIntentId"`
	PayerID         string         `json:"payer_id" firestore:"payerId"`
	Amount          int64          `json:"amount" firestore:"amount"`
	Currency        string         `json:"currency" firestore:"currency"`
	Status          string         `json:"status" firestore:"status"`
	Payload         PendingListing `json:"payload" firestore:"payload"`
	ListingID       string         `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CreatedAt       time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time      `json:"updated_at" firestore:"updatedAt"`
}
