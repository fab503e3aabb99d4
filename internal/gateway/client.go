// Package gateway is a minimal JSON client for the Vaultpay REST API. It
// covers the merchant-scoped resources the service layer needs: client
// tokens, customers, payment methods, transactions, plans and
// subscriptions.
package gateway

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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/harborline/vaultpay-go/pkg/logging"
)

const (
	sandboxBaseURL    = "https://api.sandbox.vaultpay.com"
	productionBaseURL = "https://api.vaultpay.com"

	apiVersion     = "2025-03-01"
	defaultTimeout = 8 * time.Second
)

// Config carries the credentials and dial settings for one merchant account.
type Config struct {
	Environment string // "sandbox" (default) or "production"
	MerchantID  string
	PublicKey   string
	PrivateKey  string
	Timeout     time.Duration
	Logger      *logging.Logger
	Tracer      trace.Tracer // nil means the global provider's tracer
}

// Client talks to the Vaultpay API for a single merchant account. All
// methods are safe for concurrent use.
type Client struct {
	baseURL    string
	merchantID string
	publicKey  string
	privateKey string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
}

// New creates a client for the environment named in cfg.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("vaultpay.internal.gateway")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := sandboxBaseURL
	if cfg.Environment == "production" {
		baseURL = productionBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		merchantID: cfg.MerchantID,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Component("gateway"),
		tracer:     tracer,
	}
}

// WithBaseURL overrides the API base URL (for testing).
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// merchantPath builds /v1/merchants/{merchant_id}/... with every segment
// path-escaped.
func (c *Client) merchantPath(segments ...string) string {
	var b strings.Builder
	b.WriteString("/v1/merchants/")
	b.WriteString(url.PathEscape(c.merchantID))
	for _, seg := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// do sends one authenticated JSON request. A non-2xx response is returned
// as an *APIError; out is left untouched on any error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: request %s %s: %w", method, path, err)
	}
	req.SetBasicAuth(c.publicKey, c.privateKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Vaultpay-Version", apiVersion)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("vaultpay request",
		"method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode %s %s: %w", method, path, err)
	}
	return nil
}
