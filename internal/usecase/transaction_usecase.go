package usecase

import (
	"context"
	"time"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/logger"
)

// TransactionUseCase owns the buyer/seller negotiation state machine:
// pending -> accepted -> completed, with cancellation from any non-terminal
// state. Completing a transaction marks its listing sold.
type TransactionUseCase struct {
	transactionRepo repository.TransactionRepository
	listingRepo     repository.ListingRepository
	messageRepo     repository.MessageRepository
}

func NewTransactionUseCase(
	transactionRepo repository.TransactionRepository,
	listingRepo repository.ListingRepository,
	messageRepo repository.MessageRepository,
) *TransactionUseCase {
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		listingRepo:     listingRepo,
		messageRepo:     messageRepo,
	}
}

type OpenTransactionInput struct {
	ListingID string
	Message   string
}

func (uc *TransactionUseCase) Open(ctx context.Context, buyerID string, input OpenTransactionInput) (*entity.Transaction, error) {
	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	if listing.OwnerID == buyerID {
		return nil, errors.SelfTrade()
	}
	if listing.Status != entity.ListingStatusActive {
		return nil, errors.ListingUnavailable()
	}

	transaction := &entity.Transaction{
		ListingID: listing.ID,
		BuyerID:   buyerID,
		SellerID:  listing.OwnerID,
		Status:    entity.TransactionStatusPending,
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	// Fire and forget; the transaction stands regardless of message delivery.
	if input.Message != "" {
		message := &entity.Message{
			SenderID:   buyerID,
			ReceiverID: listing.OwnerID,
			Content:    input.Message,
		}
		if err := uc.messageRepo.Create(ctx, message); err != nil {
			logger.Warn("Failed to forward opening message for transaction %s: %v", transaction.ID, err)
		}
	}

	return transaction, nil
}

func (uc *TransactionUseCase) Accept(ctx context.Context, sellerID, transactionID string) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.SellerID != sellerID {
		return nil, errors.Forbidden("Only the seller can accept a transaction", nil)
	}
	if transaction.Status != entity.TransactionStatusPending {
		return nil, errors.InvalidState("Transaction is not pending")
	}

	now := time.Now()
	transaction.Status = entity.TransactionStatusAccepted
	transaction.AcceptedAt = &now

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

func (uc *TransactionUseCase) Complete(ctx context.Context, sellerID, transactionID string) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if transaction.SellerID != sellerID {
		return nil, errors.Forbidden("Only the seller can complete a transaction", nil)
	}
	if transaction.Status != entity.TransactionStatusAccepted {
		return nil, errors.InvalidState("Transaction must be accepted before completion")
	}

	// Marks the transaction completed and the listing sold atomically.
	if err := uc.transactionRepo.Complete(ctx, transaction); err != nil {
		return nil, err
	}

	logger.Info("Transaction %s completed, listing %s sold", transaction.ID, transaction.ListingID)
	return transaction, nil
}

func (uc *TransactionUseCase) Cancel(ctx context.Context, callerID, transactionID string) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !transaction.IsParticipant(callerID) {
		return nil, errors.Forbidden("You are not part of this transaction", nil)
	}
	if transaction.Status == entity.TransactionStatusCompleted {
		return nil, errors.InvalidState("A completed transaction cannot be cancelled")
	}
	if transaction.Status == entity.TransactionStatusCancelled {
		return nil, errors.InvalidState("Transaction is already cancelled")
	}

	if err := uc.transactionRepo.Cancel(ctx, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

type TransactionDetail struct {
	Transaction *entity.Transaction `json:"transaction"`
	Role        string              `json:"role"`
}

func (uc *TransactionUseCase) GetByID(ctx context.Context, callerID, transactionID string) (*TransactionDetail, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !transaction.IsParticipant(callerID) {
		return nil, errors.Forbidden("You are not part of this transaction", nil)
	}

	role := "buyer"
	if transaction.SellerID == callerID {
		role = "seller"
	}

	return &TransactionDetail{
		Transaction: transaction,
		Role:        role,
	}, nil
}

type MyTransactions struct {
	AsBuyer  []*entity.Transaction `json:"as_buyer"`
	AsSeller []*entity.Transaction `json:"as_seller"`
}

func (uc *TransactionUseCase) ListMine(ctx context.Context, callerID string) (*MyTransactions, error) {
	transactions, err := uc.transactionRepo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	result := &MyTransactions{
		AsBuyer:  []*entity.Transaction{},
		AsSeller: []*entity.Transaction{},
	}
	for _, transaction := range transactions {
		if transaction.BuyerID == callerID {
			result.AsBuyer = append(result.AsBuyer, transaction)
		} else {
			result.AsSeller = append(result.AsSeller, transaction)
		}
	}

	return result, nil
}
