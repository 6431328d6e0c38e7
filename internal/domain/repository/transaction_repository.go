package repository

import (
	"context"

	"lokalmarket/internal/domain/entity"
)

type TransactionRepository interface {
	// Create persists a new pending transaction together with a uniqueness
	// hold on (buyer, listing). It fails with DUPLICATE_TRANSACTION when the
	// buyer already holds an open transaction on the listing.
	Create(ctx context.Context, transaction *entity.Transaction) error

	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// Update, Complete and Cancel all re-check the stored status before
	// writing and fail with INVALID_STATE when it is terminal: completed and
	// cancelled are final no matter what snapshot the caller checked.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Complete marks the transaction completed and the listing sold in a
	// single storage transaction, releasing the buyer/listing hold.
	Complete(ctx context.Context, transaction *entity.Transaction) error

	// Cancel marks the transaction cancelled and releases the buyer/listing
	// hold so the buyer may open a new one later.
	Cancel(ctx context.Context, transaction *entity.Transaction) error

	ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error)
}
