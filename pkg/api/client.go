package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"resty.dev/v3"

	"github.com/manifest-network/six-cities-client/pkg"
	"github.com/manifest-network/six-cities-client/pkg/notify"
)

// Client is a six-cities API client. It is safe for concurrent use and is
// meant to be created once and shared.
type Client struct {
	rc       *resty.Client
	baseURL  string
	timeout  time.Duration
	notifier notify.Notifier
}

// Option customizes a Client built by New.
type Option func(*options)

type options struct {
	transport http.RoundTripper
}

// WithTransport sets the round tripper requests are sent through.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// NewDefault creates a client for the production backend.
func NewDefault(tokens TokenFunc, notifier notify.Notifier) *Client {
	return New(pkg.DefaultClientConfig(), tokens, notifier)
}

// New creates a client from cfg. A nil tokens never yields a token and a nil
// notifier discards notifications.
func New(cfg pkg.ClientConfig, tokens TokenFunc, notifier notify.Notifier, opts ...Option) *Client {
	o := options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}
	if tokens == nil {
		tokens = func() (string, bool) { return "", false }
	}
	if notifier == nil {
		notifier = notify.Discard
	}

	hc := &http.Client{Transport: &tokenTransport{base: o.transport, tokens: tokens}}
	rc := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		rc:       rc,
		baseURL:  cfg.BaseURL,
		timeout:  cfg.Timeout,
		notifier: notifier,
	}
}

// BaseURL is the root every request path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout is the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Do sends a request to path, relative to the base URL. On success the JSON
// body is decoded into result when result is non-nil. Every failure is
// returned as *Error after the notification step.
func (c *Client) Do(ctx context.Context, method, path string, body, result interface{}) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx).SetError(&errorBody{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return resp, c.fail(method, path, newTransportError(ctx, err, c.timeout))
	}
	if resp.IsError() {
		return resp, c.fail(method, path, newResponseError(resp))
	}

	requestsTotal.WithLabelValues(method, codeOK).Inc()
	slog.Debug("Request succeeded", "method", method, "path", path, "status", resp.StatusCode())
	return resp, nil
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) (*resty.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) Post(ctx context.Context, path string, body, result interface{}) (*resty.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) Put(ctx context.Context, path string, body, result interface{}) (*resty.Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, result)
}

func (c *Client) Delete(ctx context.Context, path string) (*resty.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) fail(method, path string, e *Error) error {
	requestsTotal.WithLabelValues(method, e.Code).Inc()
	slog.Debug("Request failed", "method", method, "path", path, "code", e.Code, "status", e.StatusCode, "error", e.Err)
	c.notify(e)
	return e
}

// notify shows timeouts keyed by the timeout code and allow-listed client
// errors keyed by the base URL.
func (c *Client) notify(e *Error) {
	switch {
	case e.Code == CodeTimeout:
		c.notifier.Notify(e.Message, CodeTimeout)
	case e.Response != nil && NotifyStatuses.Contains(e.StatusCode):
		msg := e.ServerMessage
		if msg == "" {
			msg = e.Message
		}
		c.notifier.Notify(msg, c.baseURL)
	}
}
