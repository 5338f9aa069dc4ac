package stripecard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds Stripe API configuration
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client is a minimal Stripe client covering the payment-intent and
// refund calls the reservation flows need.
type Client struct {
	httpClient *http.Client
	config     Config
}

// PaymentIntent is the subset of Stripe's payment_intent object we read
type PaymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

// Refund is the subset of Stripe's refund object we read
type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// apiError mirrors Stripe's error envelope
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a new Stripe API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stripe.com"
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// CreatePaymentIntentRequest describes an additional charge to collect
type CreatePaymentIntentRequest struct {
	AmountCents    int64
	Currency       string
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
}

// CreatePaymentIntent creates a payment intent for the given amount
func (c *Client) CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (*PaymentIntent, error) {
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}
	if strings.TrimSpace(req.Currency) == "" {
		return nil, fmt.Errorf("validation error: currency must be non-empty")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var out PaymentIntent
	if err := c.do(ctx, "/v1/payment_intents", form, req.IdempotencyKey, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPaymentIntent retrieves a payment intent by ID
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("validation error: payment intent id must be non-empty")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/v1/payment_intents/"+id), nil)
	if err != nil {
		return nil, fmt.Errorf("stripe api call failed: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	var out PaymentIntent
	if err := c.send(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRefundRequest describes a refund against a prior payment intent
type CreateRefundRequest struct {
	PaymentIntentID string
	AmountCents     int64
	Reason          string
	IdempotencyKey  string
}

// CreateRefund requests a refund. The refunded amount is a request parameter
// to Stripe, not a guarantee; callers must check the returned status.
func (c *Client) CreateRefund(ctx context.Context, req CreateRefundRequest) (*Refund, error) {
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		return nil, fmt.Errorf("validation error: payment_intent must be non-empty")
	}
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("validation error: amount must be > 0")
	}

	form := url.Values{}
	form.Set("payment_intent", req.PaymentIntentID)
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	if req.Reason != "" {
		form.Set("reason", req.Reason)
	}

	var out Refund
	if err := c.do(ctx, "/v1/refunds", form, req.IdempotencyKey, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

func (c *Client) do(ctx context.Context, path string, form url.Values, idempotencyKey string, out interface{}) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("stripe client is not initialized")
	}
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return fmt.Errorf("stripe config error: secret key is empty")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("stripe api call failed: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	return c.send(httpReq, out)
}

func (c *Client) send(httpReq *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("stripe api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe api error (%s): %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse stripe response: %w", err)
	}
	return nil
}
