package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/service"
	"lokalmarket/pkg/errors"
)

// In-memory repositories mirroring the Firestore implementations' semantics,
// including the uniqueness constraints enforced through marker documents.

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*entity.Listing{}}
}

func (r *fakeListingRepo) put(listing *entity.Listing) {
	copied := *listing
	r.listings[listing.ID] = &copied
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	stored, ok := r.listings[listing.ID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	if stored.Status != entity.ListingStatusActive {
		return errors.InvalidState("Listing is no longer active")
	}
	listing.UpdatedAt = time.Now()
	r.put(listing)
	return nil
}

func (r *fakeListingRepo) ListAll(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error) {
	active, err := r.ListActive(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(active))
	if offset > len(active) {
		offset = len(active)
	}
	active = active[offset:]
	if limit > 0 && limit < len(active) {
		active = active[:limit]
	}
	return active, total, nil
}

func (r *fakeListingRepo) ListActive(ctx context.Context) ([]*entity.Listing, error) {
	var listings []*entity.Listing
	for _, listing := range r.listings {
		if listing.Status == entity.ListingStatusActive {
			copied := *listing
			listings = append(listings, &copied)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

func (r *fakeListingRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	var listings []*entity.Listing
	for _, listing := range r.listings {
		if listing.OwnerID == ownerID {
			copied := *listing
			listings = append(listings, &copied)
		}
	}
	return listings, nil
}

type fakePaymentRepo struct {
	intents  map[string]*entity.PaymentIntent
	listings *fakeListingRepo
}

func newFakePaymentRepo(listings *fakeListingRepo) *fakePaymentRepo {
	return &fakePaymentRepo{
		intents:  map[string]*entity.PaymentIntent{},
		listings: listings,
	}
}

func (r *fakePaymentRepo) Create(ctx context.Context, intent *entity.PaymentIntent) error {
	if intent.ID == "" {
		intent.ID = fmt.Sprintf("intent-%d", len(r.intents)+1)
	}
	now := time.Now()
	intent.CreatedAt = now
	intent.UpdatedAt = now
	copied := *intent
	r.intents[intent.GatewayIntentID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByGatewayIntentID(ctx context.Context, gatewayIntentID string) (*entity.PaymentIntent, error) {
	intent, ok := r.intents[gatewayIntentID]
	if !ok {
		return nil, errors.NotFound("Payment", nil)
	}
	copied := *intent
	return &copied, nil
}

func (r *fakePaymentRepo) ListByPayer(ctx context.Context, payerID string) ([]*entity.PaymentIntent, error) {
	var intents []*entity.PaymentIntent
	for _, intent := range r.intents {
		if intent.PayerID == payerID {
			copied := *intent
			intents = append(intents, &copied)
		}
	}
	return intents, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, gatewayIntentID, status string) error {
	intent, ok := r.intents[gatewayIntentID]
	if !ok {
		return errors.NotFound("Payment", nil)
	}
	if intent.Status == entity.PaymentStatusCompleted || intent.Status == status {
		return nil
	}
	intent.Status = status
	intent.UpdatedAt = time.Now()
	return nil
}

func (r *fakePaymentRepo) Fulfill(ctx context.Context, intent *entity.PaymentIntent, listing *entity.Listing) error {
	stored, ok := r.intents[intent.GatewayIntentID]
	if !ok {
		return errors.NotFound("Payment", nil)
	}
	if stored.ListingID != "" {
		return errors.AlreadyFulfilled("A listing was already created for this payment")
	}

	now := time.Now()
	stored.Status = entity.PaymentStatusCompleted
	stored.ListingID = listing.ID
	stored.CompletedAt = &now
	stored.UpdatedAt = now
	r.listings.put(listing)
	return nil
}

type fakeTransactionRepo struct {
	transactions map[string]*entity.Transaction
	holds        map[string]bool
	listings     *fakeListingRepo
}

func newFakeTransactionRepo(listings *fakeListingRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: map[string]*entity.Transaction{},
		holds:        map[string]bool{},
		listings:     listings,
	}
}

func holdKey(buyerID, listingID string) string {
	return buyerID + "_" + listingID
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	key := holdKey(transaction.BuyerID, transaction.ListingID)
	if r.holds[key] {
		return errors.DuplicateTransaction()
	}

	if transaction.ID == "" {
		transaction.ID = fmt.Sprintf("txn-%d", len(r.transactions)+1)
	}
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	r.holds[key] = true
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	transaction, ok := r.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	copied := *transaction
	return &copied, nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, transaction *entity.Transaction) error {
	stored, ok := r.transactions[transaction.ID]
	if !ok {
		return errors.NotFound("Transaction", nil)
	}
	if stored.IsTerminal() {
		return errors.InvalidState("Transaction is already " + stored.Status)
	}
	transaction.UpdatedAt = time.Now()
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) Complete(ctx context.Context, transaction *entity.Transaction) error {
	stored, ok := r.transactions[transaction.ID]
	if !ok {
		return errors.NotFound("Transaction", nil)
	}
	if stored.IsTerminal() {
		return errors.InvalidState("Transaction is already " + stored.Status)
	}
	if stored.Status != entity.TransactionStatusAccepted {
		return errors.InvalidState("Transaction must be accepted before completion")
	}

	listing, ok := r.listings.listings[transaction.ListingID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return errors.ListingUnavailable()
	}

	now := time.Now()
	listing.Status = entity.ListingStatusSold
	listing.UpdatedAt = now

	transaction.Status = entity.TransactionStatusCompleted
	transaction.CompletedAt = &now
	transaction.UpdatedAt = now

	delete(r.holds, holdKey(transaction.BuyerID, transaction.ListingID))
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) Cancel(ctx context.Context, transaction *entity.Transaction) error {
	stored, ok := r.transactions[transaction.ID]
	if !ok {
		return errors.NotFound("Transaction", nil)
	}
	if stored.IsTerminal() {
		return errors.InvalidState("Transaction is already " + stored.Status)
	}

	now := time.Now()
	transaction.Status = entity.TransactionStatusCancelled
	transaction.CancelledAt = &now
	transaction.UpdatedAt = now

	delete(r.holds, holdKey(transaction.BuyerID, transaction.ListingID))
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	var transactions []*entity.Transaction
	for _, transaction := range r.transactions {
		if transaction.BuyerID == userID || transaction.SellerID == userID {
			copied := *transaction
			transactions = append(transactions, &copied)
		}
	}
	return transactions, nil
}

type fakeReviewRepo struct {
	reviews map[string]*entity.Review
	index   map[string]string
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: map[string]*entity.Review{},
		index:   map[string]string{},
	}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if _, exists := r.index[review.TransactionID]; exists {
		return errors.Conflict("Review for this transaction already exists")
	}

	if review.ID == "" {
		review.ID = fmt.Sprintf("review-%d", len(r.reviews)+1)
	}
	review.CreatedAt = time.Now()

	r.index[review.TransactionID] = review.ID
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Review, error) {
	reviewID, ok := r.index[transactionID]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return r.GetByID(ctx, reviewID)
}

func (r *fakeReviewRepo) ListByReviewedUser(ctx context.Context, userID string) ([]*entity.Review, error) {
	var reviews []*entity.Review
	for _, review := range r.reviews {
		if review.ReviewedUserID == userID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}
	return reviews, nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, review *entity.Review) error {
	delete(r.reviews, review.ID)
	delete(r.index, review.TransactionID)
	return nil
}

type fakeMessageRepo struct {
	messages []*entity.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	}
	message.CreatedAt = time.Now()
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, userID, otherID string) ([]*entity.Message, error) {
	var messages []*entity.Message
	for _, message := range r.messages {
		if (message.SenderID == userID && message.ReceiverID == otherID) ||
			(message.SenderID == otherID && message.ReceiverID == userID) {
			copied := *message
			messages = append(messages, &copied)
		}
	}
	return messages, nil
}

type fakeGateway struct {
	statuses     map[string]string
	nextIntent   int
	authorizeErr error
	statusErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: map[string]string{}}
}

func (g *fakeGateway) Authorize(ctx context.Context, req service.AuthorizeRequest) (*service.GatewayIntent, error) {
	if g.authorizeErr != nil {
		return nil, g.authorizeErr
	}
	g.nextIntent++
	intentID := fmt.Sprintf("pi_test_%d", g.nextIntent)
	g.statuses[intentID] = service.GatewayStatusPending
	return &service.GatewayIntent{
		IntentID:     intentID,
		ClientSecret: intentID + "_secret",
		Status:       service.GatewayStatusPending,
	}, nil
}

func (g *fakeGateway) GetStatus(ctx context.Context, intentID string) (string, error) {
	if g.statusErr != nil {
		return "", g.statusErr
	}
	status, ok := g.statuses[intentID]
	if !ok {
		return "", errors.Gateway("Unknown intent", nil)
	}
	return status, nil
}

type fakeGeocoder struct {
	places map[string]*service.Coordinates
	err    error
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{places: map[string]*service.Coordinates{}}
}

func (g *fakeGeocoder) Resolve(ctx context.Context, place string) (*service.Coordinates, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.places[place], nil
}
