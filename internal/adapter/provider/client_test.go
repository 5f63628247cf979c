package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambhav/earnings/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
		Logger:  zerolog.Nop(),
	}), srv
}

func paymentInput() usecase.ProviderPaymentInput {
	return usecase.ProviderPaymentInput{
		ServiceType:   "electricity",
		ProviderCode:  "MSEB",
		AccountNumber: "CONS-1001",
		Amount:        decimal.NewFromInt(450),
	}
}

func TestClient_ProcessPayment_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "electricity", req["service_type"])
		assert.Equal(t, "CONS-1001", req["account_number"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"transaction_id": "PROV-TX-99",
			"message":        "paid",
		})
	}))

	result, err := client.ProcessPayment(context.Background(), paymentInput())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "PROV-TX-99", result.ProviderTxID)
	assert.Equal(t, "paid", result.Message)
}

func TestClient_ProcessPayment_DeclinedNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "invalid consumer number",
		})
	}))

	result, err := client.ProcessPayment(context.Background(), paymentInput())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "invalid consumer number", result.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ProcessPayment_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"transaction_id": "PROV-TX-1",
		})
	}))

	result, err := client.ProcessPayment(context.Background(), paymentInput())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ProcessPayment_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := client.ProcessPayment(ctx, paymentInput())
	require.Error(t, err)
}
