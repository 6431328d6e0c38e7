package repository

import (
	"context"

	"lokalmarket/internal/domain/entity"
)

type ReviewRepository interface {
	// Create persists the review together with a uniqueness marker on its
	// transaction id. It fails with CONFLICT when a review for the
	// transaction already exists.
	Create(ctx context.Context, review *entity.Review) error

	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Review, error)
	ListByReviewedUser(ctx context.Context, userID string) ([]*entity.Review, error)
	Delete(ctx context.Context, review *entity.Review) error
}
