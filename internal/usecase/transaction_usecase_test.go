package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/pkg/errors"
)

type transactionFixture struct {
	uc       *TransactionUseCase
	repo     *fakeTransactionRepo
	listings *fakeListingRepo
	messages *fakeMessageRepo
}

func newTransactionFixture() *transactionFixture {
	listings := newFakeListingRepo()
	transactions := newFakeTransactionRepo(listings)
	messages := newFakeMessageRepo()
	return &transactionFixture{
		uc:       NewTransactionUseCase(transactions, listings, messages),
		repo:     transactions,
		listings: listings,
		messages: messages,
	}
}

func (f *transactionFixture) seedListing(id, ownerID, status string) {
	f.listings.put(&entity.Listing{
		ID:        id,
		OwnerID:   ownerID,
		Title:     "Old bookshelf",
		Price:     120,
		Location:  "Gdansk",
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
}

func TestOpenTransaction(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{
		ListingID: "listing-1",
		Message:   "Is this still available?",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusPending, transaction.Status)
	assert.Equal(t, "buyer", transaction.BuyerID)
	assert.Equal(t, "seller", transaction.SellerID)

	// The opening message lands in the seller's conversation.
	conversation, err := f.messages.ListConversation(ctx, "buyer", "seller")
	require.NoError(t, err)
	require.Len(t, conversation, 1)
	assert.Equal(t, "Is this still available?", conversation[0].Content)
}

func TestOpenTransactionSelfTrade(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)

	_, err := f.uc.Open(context.Background(), "seller", OpenTransactionInput{ListingID: "listing-1"})
	assert.True(t, errors.Is(err, "SELF_TRADE"))
}

func TestOpenTransactionUnavailableListing(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("sold-listing", "seller", entity.ListingStatusSold)
	f.seedListing("deleted-listing", "seller", entity.ListingStatusDeleted)
	ctx := context.Background()

	_, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "sold-listing"})
	assert.True(t, errors.Is(err, "LISTING_UNAVAILABLE"))

	_, err = f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "deleted-listing"})
	assert.True(t, errors.Is(err, "LISTING_UNAVAILABLE"))

	_, err = f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "missing"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestOpenTransactionDuplicate(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	_, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	_, err = f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	assert.True(t, errors.Is(err, "DUPLICATE_TRANSACTION"))

	// A different buyer is not blocked by the first buyer's open transaction.
	_, err = f.uc.Open(ctx, "other-buyer", OpenTransactionInput{ListingID: "listing-1"})
	assert.NoError(t, err)
}

func TestOpenAgainAfterCancel(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	first, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, "buyer", first.ID)
	require.NoError(t, err)

	// Cancelling releases the per-buyer hold on the listing.
	_, err = f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	assert.NoError(t, err)
}

func TestAcceptTransaction(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	_, err = f.uc.Accept(ctx, "buyer", transaction.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	accepted, err := f.uc.Accept(ctx, "seller", transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)

	_, err = f.uc.Accept(ctx, "seller", transaction.ID)
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestCompleteTransaction(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	// Completion requires acceptance first.
	_, err = f.uc.Complete(ctx, "seller", transaction.ID)
	assert.True(t, errors.Is(err, "INVALID_STATE"))

	_, err = f.uc.Accept(ctx, "seller", transaction.ID)
	require.NoError(t, err)

	_, err = f.uc.Complete(ctx, "buyer", transaction.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	completed, err := f.uc.Complete(ctx, "seller", transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	listing, err := f.listings.GetByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusSold, listing.Status)

	// The listing is sold; nobody can open a new transaction on it.
	_, err = f.uc.Open(ctx, "other-buyer", OpenTransactionInput{ListingID: "listing-1"})
	assert.True(t, errors.Is(err, "LISTING_UNAVAILABLE"))
}

func TestCompleteRacesWithSoldListing(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	first, err := f.uc.Open(ctx, "buyer-1", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)
	second, err := f.uc.Open(ctx, "buyer-2", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	_, err = f.uc.Accept(ctx, "seller", first.ID)
	require.NoError(t, err)
	_, err = f.uc.Accept(ctx, "seller", second.ID)
	require.NoError(t, err)

	_, err = f.uc.Complete(ctx, "seller", first.ID)
	require.NoError(t, err)

	// Only one accepted transaction can win the listing.
	_, err = f.uc.Complete(ctx, "seller", second.ID)
	assert.True(t, errors.Is(err, "LISTING_UNAVAILABLE"))
}

func TestCancelTransaction(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, "stranger", transaction.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	cancelled, err := f.uc.Cancel(ctx, "seller", transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = f.uc.Cancel(ctx, "buyer", transaction.ID)
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestCancelCompletedTransaction(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)
	_, err = f.uc.Accept(ctx, "seller", transaction.ID)
	require.NoError(t, err)
	_, err = f.uc.Complete(ctx, "seller", transaction.ID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, "buyer", transaction.ID)
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestStaleCancelCannotOverrideCompleted(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)
	accepted, err := f.uc.Accept(ctx, "seller", transaction.ID)
	require.NoError(t, err)

	// A cancel that passed its pre-check against this snapshot commits only
	// after the completion below.
	stale := *accepted

	_, err = f.uc.Complete(ctx, "seller", transaction.ID)
	require.NoError(t, err)

	err = f.repo.Cancel(ctx, &stale)
	assert.True(t, errors.Is(err, "INVALID_STATE"))

	stored, err := f.repo.GetByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCompleted, stored.Status)

	listing, err := f.listings.GetByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusSold, listing.Status)
}

func TestStaleCompleteCannotResurrectCancelled(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)
	accepted, err := f.uc.Accept(ctx, "seller", transaction.ID)
	require.NoError(t, err)

	stale := *accepted

	_, err = f.uc.Cancel(ctx, "buyer", transaction.ID)
	require.NoError(t, err)

	err = f.repo.Complete(ctx, &stale)
	assert.True(t, errors.Is(err, "INVALID_STATE"))

	stored, err := f.repo.GetByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCancelled, stored.Status)

	// The listing was never sold through the dead transaction.
	listing, err := f.listings.GetByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ListingStatusActive, listing.Status)
}

func TestStaleAcceptCannotReopenCancelled(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	stale := *transaction
	stale.Status = entity.TransactionStatusAccepted

	_, err = f.uc.Cancel(ctx, "buyer", transaction.ID)
	require.NoError(t, err)

	err = f.repo.Update(ctx, &stale)
	assert.True(t, errors.Is(err, "INVALID_STATE"))

	stored, err := f.repo.GetByID(ctx, transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusCancelled, stored.Status)
}

func TestGetTransactionByID(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	ctx := context.Background()

	transaction, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)

	detail, err := f.uc.GetByID(ctx, "buyer", transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer", detail.Role)

	detail, err = f.uc.GetByID(ctx, "seller", transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "seller", detail.Role)

	_, err = f.uc.GetByID(ctx, "stranger", transaction.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListMine(t *testing.T) {
	f := newTransactionFixture()
	f.seedListing("listing-1", "seller", entity.ListingStatusActive)
	f.seedListing("listing-2", "buyer", entity.ListingStatusActive)
	ctx := context.Background()

	_, err := f.uc.Open(ctx, "buyer", OpenTransactionInput{ListingID: "listing-1"})
	require.NoError(t, err)
	_, err = f.uc.Open(ctx, "seller", OpenTransactionInput{ListingID: "listing-2"})
	require.NoError(t, err)

	mine, err := f.uc.ListMine(ctx, "buyer")
	require.NoError(t, err)
	assert.Len(t, mine.AsBuyer, 1)
	assert.Len(t, mine.AsSeller, 1)

	empty, err := f.uc.ListMine(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, empty.AsBuyer)
	assert.Empty(t, empty.AsSeller)
}
