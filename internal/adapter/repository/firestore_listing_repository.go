package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	docRef := r.client.Collection("listings").Doc(listing.ID)
	listing.UpdatedAt = time.Now()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var stored entity.Listing
		if err := doc.DataTo(&stored); err != nil {
			return err
		}

		// Sold and deleted never revert to active: an edit whose pre-check
		// read a stale active listing must not write over a completed sale.
		if stored.Status != entity.ListingStatusActive {
			return errors.InvalidState("Listing is no longer active")
		}

		return tx.Set(docRef, listing)
	})

	if err != nil {
		if errors.Is(err, "INVALID_STATE") {
			return err
		}
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Listing", err)
		}
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) ListAll(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("listings").
		Where("status", "==", entity.ListingStatusActive).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count listings", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	listings, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) ListActive(ctx context.Context) ([]*entity.Listing, error) {
	query := r.client.Collection("listings").
		Where("status", "==", entity.ListingStatusActive).
		OrderBy("createdAt", firestore.Desc)

	return r.collect(query.Documents(ctx))
}

func (r *firestoreListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	query := r.client.Collection("listings").
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc)

	return r.collect(query.Documents(ctx))
}

func (r *firestoreListingRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Listing, error) {
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, nil
}
