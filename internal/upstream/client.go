package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrAuthFailure covers both a rejected login exchange and a request
	// that is still rejected after one token refresh.
	ErrAuthFailure = errors.New("provider authentication failed")

	// ErrGuildNotFound is returned when the mandatory guild payload cannot
	// be resolved upstream.
	ErrGuildNotFound = errors.New("guild not found")

	errNotFound = errors.New("not found upstream")
)

// tokenSkew makes a token count as expired well before the provider-side
// expiry to avoid racing it.
const tokenSkew = 5 * time.Minute

// ClientOptions configures a provider client.
type ClientOptions struct {
	BaseURL    string
	Email      string
	Password   string
	Timeout    time.Duration
	Limiter    *RateLimiter
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client talks to the data provider. It owns the process-wide bearer token
// cache; a single Client is shared by all concurrent banner requests.
type Client struct {
	baseURL  string
	host     string
	email    string
	password string
	timeout  time.Duration
	httpc    *http.Client
	limiter  *RateLimiter
	log      *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	login singleflight.Group

	now func() time.Time
}

func NewClient(opts ClientOptions) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	host := opts.BaseURL
	if u, err := url.Parse(opts.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Client{
		baseURL:  opts.BaseURL,
		host:     host,
		email:    opts.Email,
		password: opts.Password,
		timeout:  timeout,
		httpc:    httpc,
		limiter:  opts.Limiter,
		log:      log,
		now:      time.Now,
	}
}

// ensureToken returns a cached bearer token, logging in when the cache is
// empty or inside the expiry skew window. Concurrent callers that miss the
// cache share one login exchange.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if tok, ok := c.cachedToken(); ok {
		return tok, nil
	}

	v, err, _ := c.login.Do("login", func() (any, error) {
		// Another waiter may have refreshed the token while this call was
		// queued behind a finished flight.
		if tok, ok := c.cachedToken(); ok {
			return tok, nil
		}
		return c.authenticate(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) cachedToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expiresAt.Add(-tokenSkew)) {
		return c.token, true
	}
	return "", false
}

func (c *Client) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.token = ""
		c.expiresAt = time.Time{}
	}
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	if c.email == "" || c.password == "" {
		return "", fmt.Errorf("%w: credentials not configured", ErrAuthFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(loginRequest{Email: c.email, Password: c.password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: login exchange returned %s", ErrAuthFailure, resp.Status)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", ErrAuthFailure, err)
	}
	if lr.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", ErrAuthFailure)
	}
	expiresAt, err := time.Parse(time.RFC3339, lr.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("%w: bad token expiry %q", ErrAuthFailure, lr.ExpiresAt)
	}

	c.mu.Lock()
	c.token = lr.Token
	c.expiresAt = expiresAt
	c.mu.Unlock()

	c.log.Debug("provider login", "expires_at", expiresAt)
	return lr.Token, nil
}

// getJSON issues an authenticated GET. On an authorization error it refreshes
// the token and retries exactly once.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	status, err := c.doGet(ctx, path, token, out)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.invalidate(token)
		token, err = c.ensureToken(ctx)
		if err != nil {
			return err
		}
		status, err = c.doGet(ctx, path, token, out)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return fmt.Errorf("%w: %s rejected after token refresh", ErrAuthFailure, path)
		}
	}

	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", errNotFound, path)
	default:
		return fmt.Errorf("GET %s: unexpected status %d", path, status)
	}
}

func (c *Client) doGet(ctx context.Context, path, token string, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return 0, fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, nil
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return 0, fmt.Errorf("decode %s: %w", path, err)
			}
		}
		return resp.StatusCode, nil
	}

	var (
		v   any
		err error
	)
	if c.limiter != nil {
		v, err = c.limiter.Do(ctx, c.host, call)
	} else {
		v, err = call()
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
