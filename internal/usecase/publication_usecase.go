package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/repository"
	"lokalmarket/internal/domain/service"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/logger"
)

// PublicationUseCase is the only path by which a listing enters the store:
// pay the listing fee, then materialize the listing exactly once.
type PublicationUseCase struct {
	paymentRepo repository.PaymentIntentRepository
	gateway     service.PaymentGateway
	geocoder    service.Geocoder
	feeAmount   int64
	feeCurrency string
}

func NewPublicationUseCase(
	paymentRepo repository.PaymentIntentRepository,
	gateway service.PaymentGateway,
	geocoder service.Geocoder,
	feeAmount int64,
	feeCurrency string,
) *PublicationUseCase {
	return &PublicationUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		geocoder:    geocoder,
		feeAmount:   feeAmount,
		feeCurrency: feeCurrency,
	}
}

type CreateIntentResult struct {
	IntentID     string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
}

func (uc *PublicationUseCase) CreateIntent(ctx context.Context, callerID string, payload entity.PendingListing) (*CreateIntentResult, error) {
	if payload.Title == "" {
		return nil, errors.Validation("Listing title is required", nil)
	}
	if payload.Price <= 0 {
		return nil, errors.Validation("Listing price must be positive", nil)
	}
	payload.Version = entity.PendingListingVersion

	authorized, err := uc.gateway.Authorize(ctx, service.AuthorizeRequest{
		Amount:      uc.feeAmount,
		Currency:    uc.feeCurrency,
		Description: fmt.Sprintf("Listing fee: %s", payload.Title),
		Metadata: map[string]string{
			"userId":          callerID,
			"listingTitle":    payload.Title,
			"listingCategory": payload.Category,
		},
	})
	if err != nil {
		return nil, err
	}

	intent := &entity.PaymentIntent{
		GatewayIntentID: authorized.IntentID,
		PayerID:         callerID,
		Amount:          uc.feeAmount,
		Currency:        uc.feeCurrency,
		Status:          entity.PaymentStatusPending,
		Payload:         payload,
	}

	if err := uc.paymentRepo.Create(ctx, intent); err != nil {
		return nil, err
	}

	return &CreateIntentResult{
		IntentID:     authorized.IntentID,
		ClientSecret: authorized.ClientSecret,
	}, nil
}

func (uc *PublicationUseCase) ConfirmPayment(ctx context.Context, callerID, intentID string) (*entity.Listing, error) {
	if intentID == "" {
		return nil, errors.Validation("Payment intent ID is required", nil)
	}

	// The gateway is the source of truth for payment success; the stored
	// status may lag behind webhook delivery.
	gatewayStatus, err := uc.gateway.GetStatus(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if gatewayStatus != service.GatewayStatusSucceeded {
		return nil, errors.PaymentNotSucceeded(gatewayStatus)
	}

	intent, err := uc.paymentRepo.GetByGatewayIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.PayerID != callerID {
		return nil, errors.NotFound("Payment", nil)
	}
	if intent.ListingID != "" {
		return nil, errors.AlreadyFulfilled("A listing was already created for this payment")
	}

	payload := intent.Payload
	if payload.Title == "" {
		return nil, errors.Validation("Stored listing payload is incomplete", nil)
	}

	latitude, longitude := payload.Latitude, payload.Longitude
	if latitude == nil || longitude == nil {
		// Best effort only; an unresolved location never blocks publication.
		if coords, geoErr := uc.geocoder.Resolve(ctx, payload.Location); geoErr != nil {
			logger.Warn("Geocoding failed for %q: %v", payload.Location, geoErr)
		} else if coords != nil {
			latitude = &coords.Latitude
			longitude = &coords.Longitude
		}
	}

	now := time.Now()
	listing := &entity.Listing{
		ID:          uuid.New().String(),
		OwnerID:     callerID,
		Title:       payload.Title,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Condition:   payload.Condition,
		Location:    payload.Location,
		Latitude:    latitude,
		Longitude:   longitude,
		Images:      payload.Images,
		Status:      entity.ListingStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.paymentRepo.Fulfill(ctx, intent, listing); err != nil {
		return nil, err
	}

	logger.Info("Listing %s published for payment intent %s", listing.ID, intentID)
	return listing, nil
}

// HandleGatewayEvent applies an asynchronous gateway notification. It is
// idempotent and never materializes a listing; only ConfirmPayment does.
func (uc *PublicationUseCase) HandleGatewayEvent(ctx context.Context, eventType, intentID string) error {
	var status string
	switch eventType {
	case "payment_intent.succeeded":
		status = entity.PaymentStatusSucceeded
	case "payment_intent.payment_failed":
		status = entity.PaymentStatusFailed
	case "payment_intent.canceled":
		status = entity.PaymentStatusCanceled
	default:
		logger.Debug("Ignoring gateway event type %s", eventType)
		return nil
	}

	if err := uc.paymentRepo.UpdateStatus(ctx, intentID, status); err != nil {
		if errors.Is(err, "NOT_FOUND") {
			// Events can arrive for intents created elsewhere; acknowledge
			// them rather than triggering gateway retries.
			logger.Warn("Gateway event for unknown intent %s", intentID)
			return nil
		}
		return err
	}

	return nil
}

func (uc *PublicationUseCase) ListMyPayments(ctx context.Context, callerID string) ([]*entity.PaymentIntent, error) {
	return uc.paymentRepo.ListByPayer(ctx, callerID)
}

type PaymentStatusResult struct {
	Payment       *entity.PaymentIntent `json:"payment"`
	GatewayStatus string                `json:"gateway_status"`
}

func (uc *PublicationUseCase) CheckStatus(ctx context.Context, callerID, intentID string) (*PaymentStatusResult, error) {
	intent, err := uc.paymentRepo.GetByGatewayIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.PayerID != callerID {
		return nil, errors.NotFound("Payment", nil)
	}

	gatewayStatus, err := uc.gateway.GetStatus(ctx, intentID)
	if err != nil {
		return nil, err
	}

	return &PaymentStatusResult{
		Payment:       intent,
		GatewayStatus: gatewayStatus,
	}, nil
}

type PricingInfo struct {
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	AmountFormatted string `json:"amount_formatted"`
}

func (uc *PublicationUseCase) Pricing() PricingInfo {
	return PricingInfo{
		Amount:          uc.feeAmount,
		Currency:        uc.feeCurrency,
		AmountFormatted: fmt.Sprintf("%.2f %s", float64(uc.feeAmount)/100, uc.feeCurrency),
	}
}
