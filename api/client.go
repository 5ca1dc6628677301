package api

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

	"github.com/jrsteele09/wash24-admin/internal/metrics"
	"github.com/jrsteele09/wash24-admin/session"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"

	// DefaultLoginPath is where a rejected session is sent.
	DefaultLoginPath = "/auth/login"
	// DefaultTimeout bounds every backend request.
	DefaultTimeout = 15 * time.Second
)

// TokenSource yields the bearer token for the current caller, if any.
type TokenSource interface {
	Token() (string, bool)
}

// StaticToken is a TokenSource for a fixed token; empty means none.
type StaticToken string

func (t StaticToken) Token() (string, bool) {
	return string(t), t != ""
}

// Navigator is the browser side of a call: where it is and how to move it.
// A nil Navigator means the caller is not browser driven and a 401 is left
// to the caller.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// Client is the single gateway to the Wash24 REST backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	loginPath  string

	tokens  TokenSource
	session session.Service
	nav     Navigator
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLoginPath sets the page a rejected session is redirected to.
func WithLoginPath(path string) Option {
	return func(c *Client) { c.loginPath = path }
}

// New creates a client for the given base URL, e.g. "https://host/api/v1".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[api New] invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[api New] base url must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		loginPath:  DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Bind returns a copy of the client that stamps requests with tokens and
// ends sess, moving nav to the login page, when the backend answers 401.
func (c *Client) Bind(tokens TokenSource, sess session.Service, nav Navigator) *Client {
	bound := *c
	bound.tokens = tokens
	bound.session = sess
	bound.nav = nav
	return &bound
}

// Do sends a JSON request and decodes a 2xx body into out. Non-2xx answers
// become *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[api Do] marshal body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	resp, err := c.Forward(ctx, method, path, "", nil, reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("[api Do] read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("[api Do] decode %s %s: %w", method, path, err)
	}
	return nil
}

// Forward sends a request and returns the raw response. The body must be
// closed by the caller. Status codes are not turned into errors here; only
// the 401 interceptor runs.
func (c *Client) Forward(ctx context.Context, method, path, rawQuery string, header http.Header, body io.Reader) (*http.Response, error) {
	target := c.resolve(path, rawQuery)

	cancel := func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("[api Forward] build request: %w", err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	c.stamp(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		metrics.ObserveUpstream(method, 0, time.Since(start).Seconds())
		return nil, fmt.Errorf("[api Forward] %s %s: %w", method, path, err)
	}
	metrics.ObserveUpstream(method, resp.StatusCode, time.Since(start).Seconds())

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx)
	}
	return resp, nil
}

// stamp is the outbound interceptor: fixed content type, bearer if present.
func (c *Client) stamp(req *http.Request) {
	req.Header.Set("Content-Type", contentTypeJSON)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", contentTypeJSON)
	}
	req.Header.Del("Authorization")
	if c.tokens == nil {
		return
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// handleUnauthorized ends the session and moves the browser to the login
// page, unless the caller has no browser or is already on the login page.
func (c *Client) handleUnauthorized(ctx context.Context) {
	if c.nav == nil {
		return
	}
	current := c.nav.CurrentPath()
	if current == c.loginPath {
		return
	}

	// The request context may already be past its deadline; clearing must not depend on it.
	clearCtx := context.WithoutCancel(ctx)
	if c.session != nil {
		if err := c.session.Clear(clearCtx); err != nil {
			log.Warn().Err(err).Str("path", current).Msg("Failed to fully clear session after 401")
		}
	}
	metrics.ForcedLogouts.Inc()
	log.Info().Str("path", current).Msg("Backend rejected session, forcing logout")

	c.nav.Navigate(c.loginPath + "?error=" + url.QueryEscape("Session expired"))
}

func (c *Client) resolve(path, rawQuery string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = rawQuery
	return u.String()
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
