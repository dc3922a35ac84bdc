package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/logging"
)

const razorpayOrder = `{"id":"order_9A33XWu170gUtm","entity":"order","amount":50000,"amount_paid":0,"amount_due":50000,"currency":"INR","receipt":"receipt_order_1","status":"created","attempts":0,"notes":[],"created_at":1566986570}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *RazorpayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewRazorpayClient(config.PaymentConfig{
		KeyID:          "rzp_test_key",
		KeySecret:      "rzp_test_secret",
		BaseURL:        srv.URL + "/v1/",
		RequestTimeout: time.Second,
		MaxRetries:     2,
	}, logging.Discard())
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestRazorpayCreateOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req OrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, OrderRequest{Amount: 50000, Currency: "INR", Receipt: "receipt_order_1"}, req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, razorpayOrder)
	})

	order, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 50000, Currency: "INR", Receipt: "receipt_order_1"})
	require.NoError(t, err)
	assert.Equal(t, "order_9A33XWu170gUtm", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.JSONEq(t, razorpayOrder, string(order.Raw))
}

func TestRazorpayRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, razorpayOrder)
	})

	order, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR", Receipt: "r"})
	require.NoError(t, err)
	assert.Equal(t, "order_9A33XWu170gUtm", order.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRazorpayGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR", Receipt: "r"})
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusTooManyRequests, gwErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load()) // first try + 2 retries
}

func TestRazorpayClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`)
	})

	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR", Receipt: "r"})
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "BAD_REQUEST_ERROR", gwErr.Code)
	assert.Equal(t, "Authentication failed", gwErr.Error())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRazorpayTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c.timeout = 50 * time.Millisecond
	c.maxRetries = 0

	start := time.Now()
	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR", Receipt: "r"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
