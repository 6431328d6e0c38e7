package service

import (
	"context"
)

// Gateway-side intent statuses, normalized.
const (
	GatewayStatusPending   = "pending"
	GatewayStatusSucceeded = "succeeded"
	GatewayStatusFailed    = "failed"
	GatewayStatusCanceled  = "canceled"
)

type AuthorizeRequest struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type GatewayIntent struct {
	IntentID     string
	ClientSecret string
	Status       string
}

// PaymentGateway abstracts the external payment provider charging the
// listing fee. Authorize is idempotent per returned intent id; GetStatus
// reflects the provider's current view.
type PaymentGateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*GatewayIntent, error)
	GetStatus(ctx context.Context, intentID string) (string, error)
}
