// Package client sends authenticated and public REST requests and decodes their responses.
//
// Client is bound to one host at construction. GenericClient takes the host per call so a
// single instance can address several API hosts. Both share signing, header and response
// handling, hold no mutable state after construction and are safe for concurrent use.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"kurir/internal/codec"
	httpclient "kurir/internal/http"
	"kurir/internal/signer"
	"kurir/pkg/core"
)

const (
	HeaderAPIKey      = "X-MBX-APIKEY"
	HeaderContentType = "Content-Type"
	ContentTypeForm   = "application/x-www-form-urlencoded"
)

// Doer executes a request and decodes a successful body into out.
type Doer interface {
	Do(ctx context.Context, req *core.Request, out any) error
}

// Send executes req on d and returns the decoded body.
func Send[T any](ctx context.Context, d Doer, req *core.Request) (T, error) {
	var out T
	if err := d.Do(ctx, req, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Option is a functional option for configuring a client.
type Option func(*Options)

// Options holds optional client collaborators.
type Options struct {
	Logger zerolog.Logger
	Clock  func() time.Time
}

// WithLogger returns an option that sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithClock returns an option that sets the clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// base is the state shared by Client and GenericClient. It is read-only after construction.
type base struct {
	creds      core.Credentials
	recvWindow int64
	signer     *signer.Signer
	http       *httpclient.Client
	logger     zerolog.Logger
}

func newBase(config *core.Config, opts ...Option) (*base, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := withLevel(options.Logger, config.LogLevel)

	var creds core.Credentials
	if config.Credentials != nil {
		creds = *config.Credentials
	}

	hc, err := httpclient.NewClient(&httpclient.Config{
		Timeout:   config.Timeout,
		UserAgent: config.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	return &base{
		creds:      creds,
		recvWindow: config.RecvWindow,
		signer:     signer.New(creds.SecretKey, signer.WithClock(options.Clock)),
		http:       hc,
		logger:     logger,
	}, nil
}

// withLevel caps logger at the configured level. A disabled logger stays disabled.
func withLevel(logger zerolog.Logger, level string) zerolog.Logger {
	if level == "" || logger.GetLevel() == zerolog.Disabled {
		return logger
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return logger
	}
	return logger.Level(lvl)
}

func (b *base) do(ctx context.Context, host string, req *core.Request, out any) error {
	rawURL, headers, err := b.build(host, req)
	if err != nil {
		return err
	}

	resp, err := b.http.Do(ctx, req.Method, rawURL, headers)
	if err != nil {
		return &core.Error{Kind: core.KindTransport, Err: err}
	}

	if err := Interpret(resp.StatusCode, resp.Body, out); err != nil {
		b.logger.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Err(err).
			Msg("request failed")
		return err
	}
	return nil
}

// build renders the full URL and the headers for req. The signature, when present,
// is always the last query parameter.
func (b *base) build(host string, req *core.Request) (string, map[string]string, error) {
	if !supportedMethod(req.Method) {
		return "", nil, &core.Error{
			Kind:    core.KindEncoding,
			Message: fmt.Sprintf("unsupported method %q", req.Method),
		}
	}
	if host == "" {
		return "", nil, &core.Error{Kind: core.KindEncoding, Message: "missing host"}
	}

	query, err := codec.Join(req.Query, req.Payload)
	if err != nil {
		return "", nil, err
	}

	var headers map[string]string
	switch req.Security {
	case core.SecurityNone:

	case core.SecurityAPIKey:
		if b.creds.APIKey == "" {
			return "", nil, missingCredentials(req)
		}
		headers = map[string]string{HeaderAPIKey: b.creds.APIKey}

	case core.SecuritySigned:
		if b.creds.APIKey == "" || b.creds.SecretKey == "" {
			return "", nil, missingCredentials(req)
		}
		headers = map[string]string{HeaderAPIKey: b.creds.APIKey}
		if bodyBearing(req.Method) {
			headers[HeaderContentType] = ContentTypeForm
		}
		window := req.RecvWindow
		if window <= 0 {
			window = b.recvWindow
		}
		query = b.signer.Sign(query, window).Encode()

	default:
		return "", nil, &core.Error{
			Kind:    core.KindEncoding,
			Message: fmt.Sprintf("unknown security level %d", req.Security),
		}
	}

	rawURL := host + req.Path
	if query != "" {
		rawURL += "?" + query
	}
	return rawURL, headers, nil
}

func (b *base) close() error {
	return b.http.Close()
}

func missingCredentials(req *core.Request) *core.Error {
	return &core.Error{
		Kind:    core.KindMissingCredentials,
		Message: fmt.Sprintf("%s %s requires %s", req.Method, req.Path, req.Security),
		Err:     core.ErrNoCredentials,
	}
}

func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func bodyBearing(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete
}

// listenKeyParams builds the query of listen key endpoints.
func listenKeyParams(listenKey, symbol string) core.Params {
	params := core.Params{}
	if listenKey != "" {
		params = params.Add("listenKey", listenKey)
	}
	if symbol != "" {
		params = params.Add("symbol", symbol)
	}
	return params
}

// Client is a REST client bound to one host.
type Client struct {
	base *base
	host string
}

var _ Doer = (*Client)(nil)

// New creates a Client for config.BaseURL().
func New(config *core.Config, opts ...Option) (*Client, error) {
	b, err := newBase(config, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{base: b, host: config.BaseURL()}, nil
}

// Host returns the base URL every request is sent to.
func (c *Client) Host() string {
	return c.host
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.base.close()
}

// Do executes req against the client's host. req.Host is ignored.
func (c *Client) Do(ctx context.Context, req *core.Request, out any) error {
	return c.base.do(ctx, c.host, req, out)
}

// Get calls a public endpoint. params may be nil, core.Params or a struct with url tags.
func (c *Client) Get(ctx context.Context, path string, params any, out any) error {
	return c.Do(ctx, core.NewRequest(http.MethodGet, path).SetPayload(params), out)
}

// GetSigned calls a signed GET endpoint.
func (c *Client) GetSigned(ctx context.Context, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodGet, path, payload), out)
}

// PostSigned calls a signed POST endpoint.
func (c *Client) PostSigned(ctx context.Context, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodPost, path, payload), out)
}

// PutSigned calls a signed PUT endpoint.
func (c *Client) PutSigned(ctx context.Context, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodPut, path, payload), out)
}

// DeleteSigned calls a signed DELETE endpoint.
func (c *Client) DeleteSigned(ctx context.Context, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodDelete, path, payload), out)
}

// Post creates a listen key. symbol is optional.
func (c *Client) Post(ctx context.Context, path, symbol string, out any) error {
	return c.Do(ctx, apiKeyRequest(http.MethodPost, path, "", symbol), out)
}

// Put refreshes listenKey. symbol is optional.
func (c *Client) Put(ctx context.Context, path, listenKey, symbol string, out any) error {
	return c.Do(ctx, apiKeyRequest(http.MethodPut, path, listenKey, symbol), out)
}

// Delete invalidates listenKey. symbol is optional.
func (c *Client) Delete(ctx context.Context, path, listenKey, symbol string, out any) error {
	return c.Do(ctx, apiKeyRequest(http.MethodDelete, path, listenKey, symbol), out)
}

func signedRequest(method, path string, payload any) *core.Request {
	return core.NewRequest(method, path).
		SetPayload(payload).
		SetSecurity(core.SecuritySigned)
}

func apiKeyRequest(method, path, listenKey, symbol string) *core.Request {
	return core.NewRequest(method, path).
		SetQueryParams(listenKeyParams(listenKey, symbol)).
		SetSecurity(core.SecurityAPIKey)
}
