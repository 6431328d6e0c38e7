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

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()

	reviewRef := r.client.Collection("reviews").Doc(review.ID)
	indexRef := r.client.Collection("review_index").Doc(review.TransactionID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// One review per transaction: the index Create fails on the second
		// attempt even when two writers raced past the pre-check.
		if err := tx.Create(indexRef, map[string]interface{}{
			"reviewId":  review.ID,
			"createdAt": review.CreatedAt,
		}); err != nil {
			return err
		}
		return tx.Create(reviewRef, review)
	})

	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Review for this transaction already exists")
		}
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", err)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}

	return &review, nil
}

func (r *firestoreReviewRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Review, error) {
	query := r.client.Collection("reviews").
		Where("transactionId", "==", transactionID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Review", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}

	return &review, nil
}

func (r *firestoreReviewRepository) ListByReviewedUser(ctx context.Context, userID string) ([]*entity.Review, error) {
	query := r.client.Collection("reviews").
		Where("reviewedUserId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var reviews []*entity.Review

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate reviews", err)
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, errors.Internal("Failed to parse review data", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

func (r *firestoreReviewRepository) Delete(ctx context.Context, review *entity.Review) error {
	reviewRef := r.client.Collection("reviews").Doc(review.ID)
	indexRef := r.client.Collection("review_index").Doc(review.TransactionID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(reviewRef); err != nil {
			return err
		}
		return tx.Delete(indexRef)
	})

	if err != nil {
		return errors.Internal("Failed to delete review", err)
	}

	return nil
}
