// Package gateway wraps all outbound calls to the Paquexpress API. It
// injects the bearer credential and the active tenant header, classifies
// transport failures, and performs the single renewal-and-replay pass on
// unauthorized responses.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/metrics"
)

// TokenSource yields the current bearer token; empty when unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// TenantSource yields the active tenant slug; empty until resolution.
type TenantSource interface {
	TenantSlug() string
}

// Renewer performs the single-flight credential renewal. A fatal renewal
// failure is expected to clear the session as a side effect.
type Renewer interface {
	Renew(ctx context.Context) error
}

// Request describes one logical API call. Body is marshaled to JSON and
// buffered so the single post-renewal replay can resend it.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// NoAuth skips bearer injection and the renewal-and-replay pass. Set
	// for the credential issuance and renewal endpoints themselves.
	NoAuth bool
}

// APIError is a non-5xx rejection from the backend, carrying the decoded
// error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client implements the request gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	tenants    TenantSource
	renewer    Renewer
	cb         *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

func NewClient(httpClient *http.Client, baseURL string, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "paquexpress-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		log:        log,
	}
}

// Bind wires the session and tenant providers. Called once at composition
// time; the gateway is constructed before the services that feed it.
func (c *Client) Bind(tokens TokenSource, tenants TenantSource, renewer Renewer) {
	c.tokens = tokens
	c.tenants = tenants
	c.renewer = renewer
}

// Do executes req and decodes a 2xx JSON body into out (skipped when out is
// nil). On an unauthorized response it renews the credential once and
// replays the original request exactly once; a second rejection surfaces
// unmodified. Failures with no response at all are domain.ErrNetwork and
// never trigger renewal.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	outcome, err := c.doWithRetry(ctx, req, out)
	metrics.GatewayRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) doWithRetry(ctx context.Context, req Request, out any) (string, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return "client_error", fmt.Errorf("encode request body: %w", err)
	}

	status, respBody, err := c.attempt(ctx, req, body)
	if err != nil {
		return "network_error", err
	}

	if status == http.StatusUnauthorized && !req.NoAuth && c.renewer != nil {
		c.log.Debug().Str("path", req.Path).Msg("gateway: unauthorized, renewing credential")
		if err := c.renewer.Renew(ctx); err != nil {
			// Renew clears the session on fatal failures; propagate the
			// auth error to the caller unchanged.
			return "unauthorized", fmt.Errorf("renew after unauthorized: %w", err)
		}
		metrics.GatewayRetriesTotal.Inc()
		status, respBody, err = c.attempt(ctx, req, body)
		if err != nil {
			return "network_error", err
		}
	}

	switch {
	case status >= 200 && status < 300:
		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return "client_error", fmt.Errorf("decode response: %w", err)
			}
		}
		return "ok", nil
	case status == http.StatusUnauthorized:
		return "unauthorized", &APIError{Status: status, Message: errMessage(respBody)}
	case status >= 500:
		c.log.Warn().Int("status", status).Str("path", req.Path).Msg("gateway: server error")
		return "server_error", fmt.Errorf("%w: status %d", domain.ErrServer, status)
	default:
		return "client_error", &APIError{Status: status, Message: errMessage(respBody)}
	}
}

// attempt performs one HTTP round trip. A nil error guarantees a received
// response; every transport-level failure is domain.ErrNetwork.
func (c *Client) attempt(ctx context.Context, req Request, body []byte) (int, []byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if !req.NoAuth && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			hreq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if c.tenants != nil {
		if slug := c.tenants.TenantSlug(); slug != "" {
			hreq.Header.Set("X-Tenant", slug)
		}
	}

	result, err := c.cb.Execute(func() (any, error) {
		return c.httpClient.Do(hreq)
	})
	if err != nil {
		c.log.Warn().Err(err).Str("method", req.Method).Str("path", req.Path).
			Msg("gateway: request failed without response")
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", domain.ErrNetwork, err)
	}

	c.log.Debug().Str("method", req.Method).Str("path", req.Path).
		Int("status", resp.StatusCode).Msg("gateway: response")
	return resp.StatusCode, respBody, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

// errMessage decodes the canonical {"error": "..."} envelope, falling back
// to the raw body.
func errMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return string(body)
}

// IsUnauthorized reports whether err is an unauthorized API rejection.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
