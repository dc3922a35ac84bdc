package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/logging"
)

const maxGatewayResponse = 1 << 20

// Gateway creates orders with the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
}

// GatewayError is a non-2xx answer from the provider.
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

// Retryable reports whether the same request may succeed later.
func (e *GatewayError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// RazorpayClient talks to the Razorpay Orders API with basic auth.
type RazorpayClient struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	timeout    time.Duration
	maxRetries uint64
	logger     *logging.Logger
	newBackOff func() backoff.BackOff
}

func NewRazorpayClient(cfg config.PaymentConfig, logger *logging.Logger) *RazorpayClient {
	return &RazorpayClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		timeout:    cfg.RequestTimeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// CreateOrder posts req to /orders. Transport errors, 5xx and 429 are retried
// with exponential backoff; other 4xx answers fail at once.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	var order *GatewayOrder
	operation := func() error {
		o, err := c.postOrder(ctx, body)
		if err != nil {
			var gwErr *GatewayError
			if errors.As(err, &gwErr) && !gwErr.Retryable() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		order = o
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("gateway call failed, retrying", "error", err.Error(), "retry_in", wait.String())
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *RazorpayClient) postOrder(ctx context.Context, body []byte) (*GatewayOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxGatewayResponse))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseGatewayError(resp.StatusCode, raw)
	}

	order := &GatewayOrder{}
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode gateway order: %w", err))
	}
	if order.ID == "" {
		return nil, backoff.Permanent(errors.New("gateway order has no id"))
	}
	order.Raw = json.RawMessage(raw)

	return order, nil
}

// parseGatewayError reads Razorpay's {"error":{"code":...,"description":...}} envelope.
func parseGatewayError(status int, raw []byte) *GatewayError {
	var envelope struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	gwErr := &GatewayError{StatusCode: status}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		gwErr.Code = envelope.Error.Code
		gwErr.Description = envelope.Error.Description
	}
	return gwErr
}
