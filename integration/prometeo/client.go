package prometeo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/core/logger"
)

// maxBody caps the size of a decoded response.
const maxBody = 10 << 20

// Client is a banking.API backed by the Prometeo HTTP API.
// It is safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ banking.API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its timeout takes precedence over Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLimiter throttles outgoing requests with l.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// New creates a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("prometeo: invalid base url %q", cfg.BaseURL)
	}

	c := &Client{
		base:   strings.TrimSuffix(u.String(), "/"),
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.Discard(),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListProviders(ctx context.Context, credential string) ([]banking.Provider, error) {
	var out []banking.Provider
	if err := c.fetch(ctx, credential, "provider/", nil, "providers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProviderDetail(ctx context.Context, credential, code string) (banking.Provider, error) {
	var out providerDetail
	if err := c.fetch(ctx, credential, "provider/"+url.PathEscape(code)+"/", nil, "provider", &out); err != nil {
		return banking.Provider{}, err
	}
	return out.provider(code), nil
}

// Login posts the login fields as a form. The outcome status is returned
// as reported; interpreting it is up to the caller.
func (c *Client) Login(ctx context.Context, credential string, req banking.LoginRequest) (banking.LoginResponse, error) {
	form := url.Values{"provider": {req.Provider}}
	for k, v := range req.Fields {
		form.Set(k, v)
	}
	var query url.Values
	if req.Key != "" {
		query = url.Values{"key": {req.Key}}
	}

	body, status, err := c.do(ctx, credential, http.MethodPost, "login/", query, form)
	if err != nil {
		return banking.LoginResponse{}, err
	}

	var out banking.LoginResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Status == "" {
		if err := remoteError(body, status); err != nil {
			return banking.LoginResponse{}, err
		}
		return banking.LoginResponse{}, fmt.Errorf("%w: login response without status", banking.ErrContractViolation)
	}
	if out.Message == banking.MessageKeyNotFound {
		return banking.LoginResponse{}, banking.ErrKeyNotFound
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context, credential, key string) (banking.LogoutResponse, error) {
	body, status, err := c.do(ctx, credential, http.MethodGet, "logout/", url.Values{"key": {key}}, nil)
	if err != nil {
		return banking.LogoutResponse{}, err
	}
	if err := remoteError(body, status); err != nil {
		return banking.LogoutResponse{}, err
	}

	var out banking.LogoutResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return banking.LogoutResponse{}, fmt.Errorf("%w: %w", banking.ErrContractViolation, err)
	}
	return out, nil
}

func (c *Client) ClientInfo(ctx context.Context, credential, key string) (banking.ClientInfo, error) {
	var out banking.ClientInfo
	err := c.fetch(ctx, credential, "info/", url.Values{"key": {key}}, "info", &out)
	return out, err
}

func (c *Client) Accounts(ctx context.Context, credential, key string) ([]banking.Account, error) {
	var out []banking.Account
	if err := c.fetch(ctx, credential, "account/", url.Values{"key": {key}}, "accounts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Cards(ctx context.Context, credential, key string) ([]banking.Card, error) {
	var out []banking.Card
	if err := c.fetch(ctx, credential, "credit-card/", url.Values{"key": {key}}, "credit_cards", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AccountMovements(ctx context.Context, credential, key string, q banking.MovementQuery) ([]banking.Movement, error) {
	return c.movements(ctx, credential, key, "account/"+url.PathEscape(q.Number)+"/movement", q)
}

func (c *Client) CardMovements(ctx context.Context, credential, key string, q banking.MovementQuery) ([]banking.Movement, error) {
	return c.movements(ctx, credential, key, "credit-card/"+url.PathEscape(q.Number)+"/movements", q)
}

func (c *Client) Branches(ctx context.Context, credential, provider, zip string) ([]banking.Branch, error) {
	var out []banking.Branch
	path := "provider/" + url.PathEscape(provider) + "/branches"
	if err := c.fetch(ctx, credential, path, url.Values{"zip": {zip}}, "branches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ATMs(ctx context.Context, credential, provider, zip string) ([]banking.Branch, error) {
	var out []banking.Branch
	path := "provider/" + url.PathEscape(provider) + "/atms"
	if err := c.fetch(ctx, credential, path, url.Values{"zip": {zip}}, "atms", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) movements(ctx context.Context, credential, key, path string, q banking.MovementQuery) ([]banking.Movement, error) {
	query := url.Values{
		"key":        {key},
		"currency":   {q.Currency},
		"date_start": {q.Start.Format(dateLayout)},
		"date_end":   {q.End.Format(dateLayout)},
	}
	var out []banking.Movement
	if err := c.fetch(ctx, credential, path, query, "movements", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// fetch performs a GET and decodes the named payload field of a successful
// response into out.
func (c *Client) fetch(ctx context.Context, credential, path string, query url.Values, field string, out any) error {
	body, status, err := c.do(ctx, credential, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := remoteError(body, status); err != nil {
		return err
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return err
	}
	if status != http.StatusOK || env.status() != "success" {
		return fmt.Errorf("%w: %s returned %d with status %q", banking.ErrContractViolation, path, status, env.status())
	}
	raw, ok := env[field]
	if !ok {
		return fmt.Errorf("%w: %s response without %q", banking.ErrContractViolation, path, field)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", banking.ErrContractViolation, field, err)
	}
	return nil
}

// do sends one request and returns the raw body and status code.
// A non-nil form is sent url-encoded.
func (c *Client) do(ctx context.Context, credential, method, path string, query, form url.Values) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	target := c.base + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if form != nil {
		payload = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("prometeo: build request: %w", err)
	}
	req.Header.Set("X-API-Key", credential)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("prometeo: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("prometeo: read %s: %w", path, err)
	}

	c.logger.DebugContext(ctx, "prometeo request",
		logger.Method(method),
		logger.Path(req.URL.Path),
		logger.StatusCode(resp.StatusCode),
		logger.Elapsed(start),
	)
	return body, resp.StatusCode, nil
}

type envelope map[string]json.RawMessage

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env == nil {
		return nil, fmt.Errorf("%w: response is not a json object", banking.ErrContractViolation)
	}
	return env, nil
}

func (e envelope) str(key string) string {
	var s string
	if raw, ok := e[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func (e envelope) status() string { return e.str("status") }

// remoteError maps the defined remote failures: an unknown key and a
// rejected credential.
func remoteError(body []byte, status int) error {
	if env, err := decodeEnvelope(body); err == nil && env.str("message") == banking.MessageKeyNotFound {
		return banking.ErrKeyNotFound
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Join(banking.ErrUnauthorized, fmt.Errorf("prometeo: status %d", status))
	}
	return nil
}
