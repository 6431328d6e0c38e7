package repository

import (
	"context"

	"lokalmarket/internal/domain/entity"
)

type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *entity.PaymentIntent) error
	GetByGatewayIntentID(ctx context.Context, gatewayIntentID string) (*entity.PaymentIntent, error)
	ListByPayer(ctx context.Context, payerID string) ([]*entity.PaymentIntent, error)

	// UpdateStatus applies an out-of-band gateway status. It never touches an
	// intent that has already been completed, so repeated webhook deliveries
	// are no-ops.
	UpdateStatus(ctx context.Context, gatewayIntentID, status string) error

	// Fulfill stamps the intent completed and creates the listing in a single
	// storage transaction. It fails with ALREADY_FULFILLED when the intent
	// already references a listing.
	Fulfill(ctx context.Context, intent *entity.PaymentIntent, listing *entity.Listing) error
}
