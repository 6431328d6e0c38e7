package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"lokalmarket/internal/domain/entity"
	"lokalmarket/internal/domain/service"
	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/logger"
	"lokalmarket/pkg/response"
)

type PaymentHandler struct {
	publicationUC *usecase.PublicationUseCase
	gateway       *service.StripePaymentService
}

func NewPaymentHandler(publicationUC *usecase.PublicationUseCase, gateway *service.StripePaymentService) *PaymentHandler {
	return &PaymentHandler{
		publicationUC: publicationUC,
		gateway:       gateway,
	}
}

type createIntentRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Images      []string `json:"images,omitempty"`
}

func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	result, err := h.publicationUC.CreateIntent(c.Request().Context(), userID, entity.PendingListing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	listing, err := h.publicationUC.ConfirmPayment(c.Request().Context(), userID, req.PaymentIntentID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// Webhook receives asynchronous gateway notifications. It acknowledges with
// 200 even when processing fails, so the gateway does not retry forever.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read webhook payload", err))
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := h.gateway.VerifyWebhookSignature(payload, signature, 5*time.Minute); err != nil {
		logger.Warn("Webhook signature verification failed: %v", err)
		return response.Error(c, err)
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return response.Error(c, errors.BadRequest("Invalid webhook payload", err))
	}

	if err := h.publicationUC.HandleGatewayEvent(c.Request().Context(), event.Type, event.Data.Object.ID); err != nil {
		logger.Error("Failed to process gateway event %s for %s: %v", event.Type, event.Data.Object.ID, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

func (h *PaymentHandler) ListMyPayments(c echo.Context) error {
	userID := c.Get("uid").(string)

	payments, err := h.publicationUC.ListMyPayments(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, payments)
}

func (h *PaymentHandler) CheckStatus(c echo.Context) error {
	intentID := c.Param("intentId")
	if intentID == "" {
		return response.Error(c, errors.BadRequest("Payment intent ID is required", nil))
	}

	userID := c.Get("uid").(string)

	result, err := h.publicationUC.CheckStatus(c.Request().Context(), userID, intentID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *PaymentHandler) Pricing(c echo.Context) error {
	return response.Success(c, map[string]interface{}{
		"listing_fee": h.publicationUC.Pricing(),
	})
}
