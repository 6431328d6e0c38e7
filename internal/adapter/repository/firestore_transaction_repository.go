package repository

import (
	"context"
	"fmt"
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

type firestoreTransactionRepository struct {
	client *firestore.Client
}

func NewFirestoreTransactionRepository(client *firestore.Client) repository.TransactionRepository {
	return &firestoreTransactionRepository{
		client: client,
	}
}

// holdID is the deterministic key enforcing at most one open transaction per
// (buyer, listing) pair.
func holdID(buyerID, listingID string) string {
	return fmt.Sprintf("%s_%s", buyerID, listingID)
}

func (r *firestoreTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	txRef := r.client.Collection("transactions").Doc(transaction.ID)
	holdRef := r.client.Collection("transaction_holds").Doc(holdID(transaction.BuyerID, transaction.ListingID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// The hold Create fails when another open transaction already claimed
		// the pair, closing the check-then-create race.
		if err := tx.Create(holdRef, map[string]interface{}{
			"buyerId":       transaction.BuyerID,
			"listingId":     transaction.ListingID,
			"transactionId": transaction.ID,
			"createdAt":     now,
		}); err != nil {
			return err
		}
		return tx.Create(txRef, transaction)
	})

	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.DuplicateTransaction()
		}
		return errors.Internal("Failed to create transaction", err)
	}

	return nil
}

func (r *firestoreTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	doc, err := r.client.Collection("transactions").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Internal("Failed to get transaction", err)
	}

	var transaction entity.Transaction
	if err := doc.DataTo(&transaction); err != nil {
		return nil, errors.Internal("Failed to parse transaction data", err)
	}

	return &transaction, nil
}

func (r *firestoreTransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	txRef := r.client.Collection("transactions").Doc(transaction.ID)
	transaction.UpdatedAt = time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		txDoc, err := tx.Get(txRef)
		if err != nil {
			return err
		}

		var stored entity.Transaction
		if err := txDoc.DataTo(&stored); err != nil {
			return err
		}

		if stored.IsTerminal() {
			return errors.InvalidState("Transaction is already " + stored.Status)
		}

		return tx.Set(txRef, transaction)
	})

	if err != nil {
		if errors.Is(err, "INVALID_STATE") {
			return err
		}
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Transaction", err)
		}
		return errors.Internal("Failed to update transaction", err)
	}

	return nil
}

func (r *firestoreTransactionRepository) Complete(ctx context.Context, transaction *entity.Transaction) error {
	txRef := r.client.Collection("transactions").Doc(transaction.ID)
	listingRef := r.client.Collection("listings").Doc(transaction.ListingID)
	holdRef := r.client.Collection("transaction_holds").Doc(holdID(transaction.BuyerID, transaction.ListingID))

	now := time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		txDoc, err := tx.Get(txRef)
		if err != nil {
			return err
		}

		var stored entity.Transaction
		if err := txDoc.DataTo(&stored); err != nil {
			return err
		}

		// The caller's pre-check read a snapshot; re-check here so a racing
		// cancel or completion cannot be overwritten.
		if stored.IsTerminal() {
			return errors.InvalidState("Transaction is already " + stored.Status)
		}
		if stored.Status != entity.TransactionStatusAccepted {
			return errors.InvalidState("Transaction must be accepted before completion")
		}

		listingDoc, err := tx.Get(listingRef)
		if err != nil {
			return err
		}

		var listing entity.Listing
		if err := listingDoc.DataTo(&listing); err != nil {
			return err
		}

		// Guards the listing against being sold through two transactions.
		if listing.Status != entity.ListingStatusActive {
			return errors.ListingUnavailable()
		}

		listing.Status = entity.ListingStatusSold
		listing.UpdatedAt = now

		stored.Status = entity.TransactionStatusCompleted
		stored.CompletedAt = &now
		stored.UpdatedAt = now

		if err := tx.Set(listingRef, &listing); err != nil {
			return err
		}
		if err := tx.Set(txRef, &stored); err != nil {
			return err
		}
		return tx.Delete(holdRef)
	})

	if err != nil {
		if errors.Is(err, "LISTING_UNAVAILABLE") || errors.Is(err, "INVALID_STATE") {
			return err
		}
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to complete transaction", err)
	}

	transaction.Status = entity.TransactionStatusCompleted
	transaction.CompletedAt = &now
	transaction.UpdatedAt = now

	return nil
}

func (r *firestoreTransactionRepository) Cancel(ctx context.Context, transaction *entity.Transaction) error {
	txRef := r.client.Collection("transactions").Doc(transaction.ID)
	holdRef := r.client.Collection("transaction_holds").Doc(holdID(transaction.BuyerID, transaction.ListingID))

	now := time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		txDoc, err := tx.Get(txRef)
		if err != nil {
			return err
		}

		var stored entity.Transaction
		if err := txDoc.DataTo(&stored); err != nil {
			return err
		}

		// Terminal states stay terminal; a cancel based on a stale snapshot
		// must not flip a transaction that completed in the meantime.
		if stored.IsTerminal() {
			return errors.InvalidState("Transaction is already " + stored.Status)
		}

		stored.Status = entity.TransactionStatusCancelled
		stored.CancelledAt = &now
		stored.UpdatedAt = now

		if err := tx.Set(txRef, &stored); err != nil {
			return err
		}
		return tx.Delete(holdRef)
	})

	if err != nil {
		if errors.Is(err, "INVALID_STATE") {
			return err
		}
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Transaction", err)
		}
		return errors.Internal("Failed to cancel transaction", err)
	}

	transaction.Status = entity.TransactionStatusCancelled
	transaction.CancelledAt = &now
	transaction.UpdatedAt = now

	return nil
}

func (r *firestoreTransactionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction

	for _, field := range []string{"buyerId", "sellerId"} {
		query := r.client.Collection("transactions").
			Where(field, "==", userID).
			OrderBy("createdAt", firestore.Desc)

		iter := query.Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, errors.Internal("Failed to iterate transactions", err)
			}

			var transaction entity.Transaction
			if err := doc.DataTo(&transaction); err != nil {
				return nil, errors.Internal("Failed to parse transaction data", err)
			}
			transactions = append(transactions, &transaction)
		}
	}

	return transactions, nil
}
