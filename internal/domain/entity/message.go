package entity

import (
	"time"
)

// Message is a direct message between two users, typically opening a
// negotiation about a listing.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	ReceiverID string    `json:"receiver_id" firestore:"receiverId"`
	Content    string    `json:"content" firestore:"content"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
