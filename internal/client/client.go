package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client talks to the portal API. All requests go through the auth
// transport, so callers never deal with bearer tokens or 401 recovery.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      CredentialStore
}

// Option customises a Client.
type Option func(*options)

type options struct {
	transport    http.RoundTripper
	timeout      time.Duration
	onSessionEnd func()
}

// WithTransport replaces the underlying transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout bounds each request including the possible refresh-and-replay.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithSessionEndHandler registers a callback fired when the session becomes
// unrecoverable and the credential store has been cleared.
func WithSessionEndHandler(fn func()) Option {
	return func(o *options) { o.onSessionEnd = fn }
}

// New creates a Client for the given API base URL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, store CredentialStore, opts ...Option) *Client {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	base := strings.TrimRight(baseURL, "/")
	transport := newAuthTransport(o.transport, store, base+"/token/refresh/", o.onSessionEnd)

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   o.timeout,
		},
		store: store,
	}
}

// Store exposes the credential store so callers can observe login state.
func (c *Client) Store() CredentialStore {
	return c.store
}

// url joins the base URL with a relative API path.
func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// getJSON issues a GET and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}

	return c.doJSON(req, out)
}

// sendJSON issues a request with a JSON body and optionally decodes the
// response into out. The body is built from a bytes.Reader so the gateway
// can replay it after a token refresh.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doJSON(req, out)
}

// doJSON sends the request, maps non-2xx responses to *APIError, and decodes
// a JSON body into out when asked for one.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode response body")
	}

	return nil
}

// stream issues a GET and returns the raw body for the caller to consume.
// The caller owns closing it.
func (c *Client) stream(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()

		return nil, newAPIError(resp.StatusCode, body)
	}

	return resp.Body, nil
}

// mapTransportError unwraps url.Error so a terminated session surfaces as
// ErrSessionTerminated instead of a wrapped transport failure.
func (c *Client) mapTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && errors.Is(urlErr.Err, ErrSessionTerminated) {
		return urlErr.Err
	}

	return errors.Wrap(err, "send request")
}
