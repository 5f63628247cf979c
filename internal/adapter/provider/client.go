package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// Client talks to the external bill payment gateway over HTTP. It
// implements usecase.PaymentProvider. Transient transport failures are
// retried with exponential backoff inside the caller's deadline; a
// definitive provider rejection is returned as-is, never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// Config holds provider client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewClient creates a new provider client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
	}
}

type paymentRequest struct {
	ServiceType   string          `json:"service_type"`
	ProviderCode  string          `json:"provider_code"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

type paymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// ProcessPayment submits a payment to the gateway and reports the
// outcome.
func (c *Client) ProcessPayment(ctx context.Context, input usecase.ProviderPaymentInput) (*domain.ProviderResult, error) {
	body, err := json.Marshal(paymentRequest{
		ServiceType:   input.ServiceType,
		ProviderCode:  input.ProviderCode,
		AccountNumber: input.AccountNumber,
		Amount:        input.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	var result *domain.ProviderResult

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second

	err = backoff.Retry(func() error {
		res, callErr := c.call(ctx, body)
		if callErr != nil {
			c.logger.Warn().Err(callErr).Msg("provider call failed, retrying")
			return callErr
		}
		result = res
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, fmt.Errorf("provider unreachable: %w", err)
	}

	return result, nil
}

func (c *Client) call(ctx context.Context, body []byte) (*domain.ProviderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode provider response: %w", err))
	}

	// A definitive decision from the provider, success or rejection.
	return &domain.ProviderResult{
		Success:      payload.Success,
		ProviderTxID: payload.TransactionID,
		Message:      payload.Message,
	}, nil
}
