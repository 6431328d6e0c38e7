package usecase

import (
	"context"
	"math"
	"strings"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/pkg/errors"
)

// ReviewUseCase decides who may review which transaction and aggregates
// seller ratings.
type ReviewUseCase struct {
	reviewRepo      repository.ReviewRepository
	transactionRepo repository.TransactionRepository
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	transactionRepo repository.TransactionRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:      reviewRepo,
		transactionRepo: transactionRepo,
	}
}

type CanReviewResult struct {
	Allowed bool   `json:"can_review"`
	Reason  string `json:"reason,omitempty"`
}

func (uc *ReviewUseCase) CanReview(ctx context.Context, callerID, transactionID string) (*CanReviewResult, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	// Reasons are reported in priority order: wrong caller first, then
	// transaction state, then existing review.
	if transaction.BuyerID != callerID {
		return &CanReviewResult{Reason: "Only the buyer can leave a review"}, nil
	}
	if transaction.Status != entity.TransactionStatusCompleted {
		return &CanReviewResult{Reason: "Transaction must be completed first"}, nil
	}

	if _, err := uc.reviewRepo.GetByTransactionID(ctx, transactionID); err == nil {
		return &CanReviewResult{Reason: "A review was already left for this transaction"}, nil
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	return &CanReviewResult{Allowed: true}, nil
}

type CreateReviewInput struct {
	TransactionID string
	Rating        int
	Comment       string
}

func (uc *ReviewUseCase) Create(ctx context.Context, callerID string, input CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5", nil)
	}

	// Re-validate everything; a prior CanReview response is advisory only.
	transaction, err := uc.transactionRepo.GetByID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if transaction.BuyerID != callerID {
		return nil, errors.Forbidden("Only the buyer can leave a review", nil)
	}
	if transaction.Status != entity.TransactionStatusCompleted {
		return nil, errors.InvalidState("Transaction must be completed before reviewing")
	}

	review := &entity.Review{
		TransactionID:  transaction.ID,
		ReviewerID:     callerID,
		ReviewedUserID: transaction.SellerID,
		Rating:         input.Rating,
		Comment:        strings.TrimSpace(input.Comment),
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (uc *ReviewUseCase) Delete(ctx context.Context, callerID, reviewID string) error {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.ReviewerID != callerID {
		return errors.Forbidden("You can only delete your own review", nil)
	}

	return uc.reviewRepo.Delete(ctx, review)
}

func (uc *ReviewUseCase) StatsFor(ctx context.Context, userID string) (*entity.ReviewStats, error) {
	reviews, err := uc.reviewRepo.ListByReviewedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &entity.ReviewStats{
		TotalReviews: len(reviews),
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	if len(reviews) == 0 {
		return stats, nil
	}

	total := 0
	for _, review := range reviews {
		total += review.Rating
		stats.Distribution[review.Rating]++
	}
	average := float64(total) / float64(len(reviews))
	stats.AverageRating = math.Round(average*10) / 10

	return stats, nil
}

type UserReviews struct {
	Reviews []*entity.Review    `json:"reviews"`
	Stats   *entity.ReviewStats `json:"stats"`
}

func (uc *ReviewUseCase) ListFor(ctx context.Context, userID string) (*UserReviews, error) {
	reviews, err := uc.reviewRepo.ListByReviewedUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := uc.StatsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if reviews == nil {
		reviews = []*entity.Review{}
	}
	return &UserReviews{Reviews: reviews, Stats: stats}, nil
}
