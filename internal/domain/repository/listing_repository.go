package repository

import (
	"context"

	"lokalmarket/internal/domain/entity"
)

type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Listing, error)

	// Update writes owner edits and the soft delete. It re-checks the stored
	// status and fails with INVALID_STATE when the listing is no longer
	// active, so a stale edit cannot revert a sold or deleted listing.
	Update(ctx context.Context, listing *entity.Listing) error
	ListAll(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error)
	ListActive(ctx context.Context) ([]*entity.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error)
}
