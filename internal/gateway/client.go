// Package gateway talks to the remote payment provider.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/logger"
	"github.com/nikolayk812/checkout-demo/internal/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const createOrderPath = "/v1/orders"

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration

	// Breaker opens after this many consecutive failures and half-opens after BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[domain.PaymentIntent]
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// StatusError is a non-2xx gateway response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway status %d: %s %s", e.StatusCode, e.Code, e.Message)
}

// Rejected reports whether the gateway refused the request itself rather than failing to serve it.
func (e *StatusError) Rejected() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}

func NewClient(cfg Config, m *metrics.Metrics, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("gateway credentials are empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if m == nil {
		m = metrics.Nop()
	}

	log = log.With(zap.String("component", "gateway"))

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		client:    &http.Client{Timeout: cfg.Timeout},
		metrics:   m,
		logger:    log,
	}

	c.breaker = gobreaker.NewCircuitBreaker[domain.PaymentIntent](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			return err == nil || (errors.As(err, &statusErr) && statusErr.Rejected())
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	return c, nil
}

// CreateIntent reserves amount with the gateway. receipt is echoed back by
// the gateway and used to correlate the intent with the order.
func (c *Client) CreateIntent(ctx context.Context, amount domain.Money, receipt string) (domain.PaymentIntent, error) {
	if amount.IsNegative() {
		return domain.PaymentIntent{}, fmt.Errorf("amount is negative")
	}
	if receipt == "" {
		return domain.PaymentIntent{}, fmt.Errorf("receipt is empty")
	}

	intent, err := c.breaker.Execute(func() (domain.PaymentIntent, error) {
		return c.createOrder(ctx, amount, receipt)
	})
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("breaker.Execute: %w", err)
	}

	return intent, nil
}

func (c *Client) createOrder(ctx context.Context, amount domain.Money, receipt string) (_ domain.PaymentIntent, err error) {
	started := time.Now()
	status := "error"
	defer func() {
		c.metrics.GatewayLatency.WithLabelValues("create_order", status).
			Observe(float64(time.Since(started).Milliseconds()))
	}()

	body, err := json.Marshal(createOrderRequest{
		Amount:   amount.MinorUnits(),
		Currency: amount.Currency.String(),
		Receipt:  receipt,
	})
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(body))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			statusErr.Code = errResp.Error.Code
			statusErr.Message = errResp.Error.Description
		}
		return domain.PaymentIntent{}, statusErr
	}

	var created createOrderResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if created.ID == "" {
		return domain.PaymentIntent{}, fmt.Errorf("gateway returned no order id")
	}
	if created.Amount != amount.MinorUnits() || !strings.EqualFold(created.Currency, amount.Currency.String()) {
		return domain.PaymentIntent{}, fmt.Errorf("gateway echoed %d %s, want %d %s",
			created.Amount, created.Currency, amount.MinorUnits(), amount.Currency)
	}

	logger.WithSpan(ctx, c.logger).Debug("gateway order created", zap.String("gateway_order_ref", created.ID), zap.String("receipt", receipt))

	return domain.PaymentIntent{
		ID:      created.ID,
		Amount:  amount,
		Receipt: created.Receipt,
	}, nil
}

// VerifySignature checks a callback signature in constant time.
func (c *Client) VerifySignature(orderRef, paymentRef, signature string) bool {
	return VerifySignature(c.keySecret, orderRef, paymentRef, signature)
}
