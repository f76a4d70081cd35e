package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mediflow/hms-gateway/pkg/circuitbreaker"
	apperrors "github.com/mediflow/hms-gateway/pkg/errors"
	"github.com/mediflow/hms-gateway/pkg/logger"
	"github.com/mediflow/hms-gateway/pkg/metrics"
)

// Client is the typed call surface for the remote hospital API. Every call
// re-fetches; there is no local cache, no retry and no batching. A failed
// call is surfaced to the caller, which must leave its local state unchanged.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  *logger.Logger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, m *metrics.Metrics, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "hospital-api",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		metrics: m,
		logger:  log,
	}
}

// errorEnvelope is the remote service's error body shape.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorEnvelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do executes one request against the remote API. token may be empty for
// public operations; out may be nil when the response body is irrelevant.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}, token string) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("marshal %s request: %w", op, err))
		}
		reqBody = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("build %s request: %w", op, err))
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	var resp *http.Response
	err = c.cb.Execute(func() error {
		var execErr error
		resp, execErr = c.http.Do(req)
		return execErr
	})
	if c.metrics != nil {
		c.metrics.RemoteCallLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.countCall(op, "transport_error")
		c.logger.Error(err, "remote call failed", "operation", op)
		return apperrors.RemoteCall(fmt.Sprintf("%s failed", op), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(op, resp)
	}

	c.countCall(op, "success")
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.RemoteCall(fmt.Sprintf("%s returned an unreadable response", op), err)
	}
	return nil
}

// download fetches a binary payload (the invoice PDF) with the bearer set.
func (c *Client) download(ctx context.Context, op, path, token string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("build %s request: %w", op, err))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var resp *http.Response
	err = c.cb.Execute(func() error {
		var execErr error
		resp, execErr = c.http.Do(req)
		return execErr
	})
	if err != nil {
		c.countCall(op, "transport_error")
		return nil, "", apperrors.RemoteCall(fmt.Sprintf("%s failed", op), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", c.mapError(op, resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", apperrors.RemoteCall(fmt.Sprintf("%s returned an unreadable response", op), err)
	}
	c.countCall(op, "success")
	return payload, resp.Header.Get("Content-Type"), nil
}

// mapError translates remote HTTP failures into the portal error taxonomy.
// A body mentioning an existing record is treated as a conflict even when the
// remote service reports it with a generic status.
func (c *Client) mapError(op string, resp *http.Response) error {
	var envelope errorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &envelope)
	message := envelope.text()
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	c.countCall(op, fmt.Sprintf("http_%d", resp.StatusCode))
	if c.metrics != nil {
		c.metrics.RemoteCallErrors.WithLabelValues(op).Inc()
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(fmt.Errorf("%s: %s", op, message))
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden("access denied", fmt.Errorf("%s: %s", op, message))
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(op, fmt.Errorf("%s", message))
	case resp.StatusCode == http.StatusConflict,
		strings.Contains(strings.ToLower(message), "already exist"):
		return apperrors.Conflict(message, fmt.Errorf("%s: conflict", op))
	default:
		return apperrors.RemoteCall(fmt.Sprintf("%s failed", op), fmt.Errorf("status %d: %s", resp.StatusCode, message))
	}
}

func (c *Client) countCall(op, status string) {
	if c.metrics != nil {
		c.metrics.RemoteCalls.WithLabelValues(op, status).Inc()
	}
}
