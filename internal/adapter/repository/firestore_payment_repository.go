package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/pkg/errors"
)

type firestorePaymentIntentRepository struct {
	client *firestore.Client
}

func NewFirestorePaymentIntentRepository(client *firestore.Client) repository.PaymentIntentRepository {
	return &firestorePaymentIntentRepository{
		client: client,
	}
}

func (r *firestorePaymentIntentRepository) Create(ctx context.Context, intent *entity.PaymentIntent) error {
	if intent.ID == "" {
		intent.ID = uuid.New().String()
	}

	now := time.Now()
	intent.CreatedAt = now
	intent.UpdatedAt = now

	// Keyed by the gateway intent id so webhook lookups are a direct read.
	_, err := r.client.Collection("payment_intents").Doc(intent.GatewayIntentID).Set(ctx, intent)
	if err != nil {
		return errors.Internal("Failed to create payment intent", err)
	}

	return nil
}

func (r *firestorePaymentIntentRepository) GetByGatewayIntentID(ctx context.Context, gatewayIntentID string) (*entity.PaymentIntent, error) {
	doc, err := r.client.Collection("payment_intents").Doc(gatewayIntentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Payment", err)
		}
		return nil, errors.Internal("Failed to get payment intent", err)
	}

	var intent entity.PaymentIntent
	if err := doc.DataTo(&intent); err != nil {
		return nil, errors.Internal("Failed to parse payment intent data", err)
	}

	return &intent, nil
}

func (r *firestorePaymentIntentRepository) ListByPayer(ctx context.Context, payerID string) ([]*entity.PaymentIntent, error) {
	query := r.client.Collection("payment_intents").
		Where("payerId", "==", payerID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var intents []*entity.PaymentIntent

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate payment intents", err)
		}

		var intent entity.PaymentIntent
		if err := doc.DataTo(&intent); err != nil {
			return nil, errors.Internal("Failed to parse payment intent data", err)
		}
		intents = append(intents, &intent)
	}

	return intents, nil
}

func (r *firestorePaymentIntentRepository) UpdateStatus(ctx context.Context, gatewayIntentID, newStatus string) error {
	docRef := r.client.Collection("payment_intents").Doc(gatewayIntentID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var intent entity.PaymentIntent
		if err := doc.DataTo(&intent); err != nil {
			return err
		}

		// A completed intent is final; late or repeated webhook deliveries
		// must not move it.
		if intent.Status == entity.PaymentStatusCompleted || intent.Status == newStatus {
			return nil
		}

		intent.Status = newStatus
		intent.UpdatedAt = time.Now()
		return tx.Set(docRef, &intent)
	})

	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Payment", err)
		}
		return errors.Internal("Failed to update payment intent status", err)
	}

	return nil
}

func (r *firestorePaymentIntentRepository) Fulfill(ctx context.Context, intent *entity.PaymentIntent, listing *entity.Listing) error {
	intentRef := r.client.Collection("payment_intents").Doc(intent.GatewayIntentID)
	listingRef := r.client.Collection("listings").Doc(listing.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(intentRef)
		if err != nil {
			return err
		}

		var stored entity.PaymentIntent
		if err := doc.DataTo(&stored); err != nil {
			return err
		}

		if stored.ListingID != "" {
			return errors.AlreadyFulfilled("A listing was already created for this payment")
		}

		now := time.Now()
		stored.Status = entity.PaymentStatusCompleted
		stored.ListingID = listing.ID
		stored.CompletedAt = &now
		stored.UpdatedAt = now

		if err := tx.Create(listingRef, listing); err != nil {
			return err
		}
		return tx.Set(intentRef, &stored)
	})

	if err != nil {
		if errors.Is(err, "ALREADY_FULFILLED") {
			return err
		}
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Payment", err)
		}
		if status.Code(err) == codes.AlreadyExists {
			return errors.AlreadyFulfilled("A listing was already created for this payment")
		}
		return errors.Internal("Failed to fulfill payment intent", err)
	}

	return nil
}
