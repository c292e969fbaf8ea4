package identity

// Package identity is the HTTP client for the first-party identity service.
// The service issues cookie-bound sessions; the client carries them in a
// cookie jar so one client instance equals one browser session.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	domainauth "github.com/campusarc/campusarc/internal/domain/auth"
	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
)

var _ ports.CredentialStore = (*Client)(nil)

// Config captures the subset of identity service behaviour we need.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client talks to the identity service's account and session endpoints.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds an identity service client. Callers should pass a
// validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("identity base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}

	return &Client{baseURL: baseURL, client: hc}, nil
}

type accountPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (c *Client) CreateSession(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/v1/sessions", body, nil)
}

func (c *Client) DestroySession(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions/current", nil, nil)
}

func (c *Client) CurrentPrincipal(ctx context.Context) (domainauth.Principal, error) {
	var payload accountPayload
	if err := c.do(ctx, http.MethodGet, "/v1/account", nil, &payload); err != nil {
		return domainauth.Principal{}, err
	}
	return domainauth.Principal{ID: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

func (c *Client) CreatePrincipal(ctx context.Context, email, password, name string) (domainauth.Principal, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var payload accountPayload
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", body, &payload); err != nil {
		return domainauth.Principal{}, err
	}
	return domainauth.Principal{ID: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

// do performs one request and maps the response onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "identity service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "decode identity response")
		}
		return nil
	}

	return c.mapStatus(resp)
}

func (c *Client) mapStatus(resp *http.Response) error {
	var payload errorPayload
	// Error body is advisory only; ignore decode failures.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	message := payload.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthenticated(message)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(message)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(message)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.Validation(message)
	case resp.StatusCode >= 500:
		return apperrors.Unavailable(fmt.Sprintf("identity service error: %s", message))
	default:
		return apperrors.Internal(fmt.Sprintf("unexpected identity response %d: %s", resp.StatusCode, message))
	}
}
