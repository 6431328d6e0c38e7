package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/logger"
)

// StripePaymentService talks to the Stripe REST API directly.
type StripePaymentService struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewStripePaymentService(secretKey, webhookSecret string) *StripePaymentService {
	return &StripePaymentService{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       "https://api.stripe.com/v1",
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

func (s *StripePaymentService) Authorize(ctx context.Context, req AuthorizeRequest) (*GatewayIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", req.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for key, value := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	body, err := s.do(ctx, http.MethodPost, "/payment_intents", form)
	if err != nil {
		return nil, err
	}

	var intent stripeIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, errors.Gateway("Failed to parse gateway response", err)
	}

	logger.Info("Stripe payment intent created: %s", intent.ID)

	return &GatewayIntent{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       mapStripeStatus(intent.Status),
	}, nil
}

func (s *StripePaymentService) GetStatus(ctx context.Context, intentID string) (string, error) {
	body, err := s.do(ctx, http.MethodGet, "/payment_intents/"+intentID, nil)
	if err != nil {
		return "", err
	}

	var intent stripeIntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", errors.Gateway("Failed to parse gateway response", err)
	}

	return mapStripeStatus(intent.Status), nil
}

func (s *StripePaymentService) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, errors.Gateway("Failed to build gateway request", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Gateway("Payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Gateway("Failed to read gateway response", err)
	}

	if resp.StatusCode >= 400 {
		logger.Error("Stripe API error (%d): %s", resp.StatusCode, string(body))
		return nil, errors.Gateway(fmt.Sprintf("Payment gateway returned %d", resp.StatusCode), nil)
	}

	return body, nil
}

func mapStripeStatus(status string) string {
	switch status {
	case "succeeded":
		return GatewayStatusSucceeded
	case "canceled":
		return GatewayStatusCanceled
	case "requires_payment_method", "requires_confirmation", "requires_action", "processing":
		return GatewayStatusPending
	default:
		logger.Warn("Unknown Stripe intent status %q, treating as pending", status)
		return GatewayStatusPending
	}
}

// VerifyWebhookSignature checks a Stripe-Signature header
// ("t=<unix>,v1=<hex hmac>") against the raw payload. The signed payload is
// "<t>.<body>" keyed with the webhook secret.
func (s *StripePaymentService) VerifyWebhookSignature(payload []byte, header string, tolerance time.Duration) error {
	if header == "" {
		return errors.Unauthorized("Webhook signature missing", nil)
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errors.Unauthorized("Malformed webhook signature", nil)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.Unauthorized("Malformed webhook timestamp", err)
	}
	if tolerance > 0 && time.Since(time.Unix(ts, 0)) > tolerance {
		return errors.Unauthorized("Webhook timestamp outside tolerance", nil)
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return nil
		}
	}

	return errors.Unauthorized("Webhook signature mismatch", nil)
}
