// Package client talks to the admin REST API. Every error it returns
// classifies with models.Classify, so callers handle remote and in-process
// failures alike.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayo6706/brokerage-admin/internal/api/problem"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 200 * time.Millisecond
	maxErrorBody       = 64 << 10
)

// TokenSource supplies the bearer token for each request. An empty token
// means the caller is not signed in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Options configures a Client. Zero values take defaults.
type Options struct {
	BaseURL     string
	Tokens      TokenSource
	HTTPClient  *http.Client
	Logger      *zap.Logger
	MaxAttempts int
	BaseDelay   time.Duration
}

// Client is the REST client for the admin contract.
type Client struct {
	baseURL     *url.URL
	tokens      TokenSource
	httpClient  *http.Client
	logger      *zap.Logger
	maxAttempts int
	baseDelay   time.Duration

	Users        *UserClient
	Transactions *TransactionClient
	Kyc          *KycClient
	Tickets      *TicketClient
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, models.NewValidationError("baseURL", "must be an absolute URL")
	}
	c := &Client{
		baseURL:     base,
		tokens:      opts.Tokens,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = defaultBaseDelay
	}

	c.Users = &UserClient{Resource: newResource[models.User](c, "users")}
	c.Transactions = &TransactionClient{Resource: newResource[models.Transaction](c, "transactions")}
	c.Kyc = &KycClient{Resource: newResource[models.KycRequest](c, "kyc")}
	c.Tickets = &TicketClient{Resource: newResource[models.SupportTicket](c, "tickets")}
	return c, nil
}

// Stats fetches the dashboard statistics as raw JSON fields.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &out)
	return out, err
}

// AuditLog fetches the latest audit entries, newest first.
func (c *Client) AuditLog(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	var out []models.AuditEntry
	err := c.do(ctx, http.MethodGet, "/api/admin/audit", q, nil, &out)
	return out, err
}

// do sends one API call and decodes the data envelope into out. GETs are
// retried on transient failures; mutations are sent once.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.maxAttempts
	}
	delay := c.baseDelay
	for attempt := 1; ; attempt++ {
		err = c.send(ctx, method, path, q, token, payload, out)
		if err == nil || attempt >= attempts || !errors.Is(err, models.ErrTransient) {
			return err
		}
		c.logger.Debug("retrying admin api call",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", models.ErrAuthRequired
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrAuthRequired, err)
	}
	if strings.TrimSpace(token) == "" {
		return "", models.ErrAuthRequired
	}
	return token, nil
}

func (c *Client) send(ctx context.Context, method, path string, q url.Values, token string, payload []byte, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Trace-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, models.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		env := struct {
			Data any `json:"data"`
		}{Data: out}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return statusError(resp.StatusCode, raw)
}

// statusError maps an error response onto the error taxonomy.
func statusError(status int, body []byte) error {
	d, ok := problem.Decode(body)
	detail := strings.TrimSpace(string(body))
	if ok {
		detail = d.Detail
	}
	if detail == "" {
		detail = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", models.ErrAuthRequired, detail)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return models.NewValidationError(d.Field, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, models.ErrNotFound)
	case status == http.StatusConflict:
		return fmt.Errorf("%s: %w", detail, models.ErrInvalidTransition)
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		return fmt.Errorf("status %d: %s: %w", status, detail, models.ErrTransient)
	default:
		return fmt.Errorf("unexpected status %d: %s", status, detail)
	}
}
