package entity

import (
	"time"
)

// Review is a 1-5 rating a buyer leaves about a seller after a completed
// transaction. At most one review exists per transaction.
type Review struct {
	ID             string    `json:"id" firestore:"id"`
	TransactionID  string    `json:"transaction_id" firestore:"transactionId"`
	ReviewerID     string    `json:"reviewer_id" firestore:"reviewerId"`
	ReviewedUserID string    `json:"reviewed_user_id" firestore:"reviewedUserId"`
	Rating         int       `json:"rating" firestore:"rating"`
	Comment        string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

// ReviewStats aggregates the reviews about one user.
type ReviewStats struct {
	TotalReviews  int         `json:"total_reviews"`
	AverageRating float64     `json:"average_rating"`
	Distribution  map[int]int `json:"rating_distribution"`
}
