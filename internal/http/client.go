package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"resty.dev/v3"
)

// Client is a thin resty wrapper that sends requests with pre-encoded query strings.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
}

type Config struct {
	// Timeout bounds each request. Zero leaves the deadline to the caller's context.
	Timeout   time.Duration `validate:"min=0"`
	UserAgent string        `validate:"required"`
	Logger    zerolog.Logger
}

// Response is the status and raw body of a completed exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

var validate = validator.New()

func NewClient(config *Config) (*Client, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetRetryCount(0)
	client.SetResponseBodyUnlimitedReads(true)
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	client.SetHeader("User-Agent", config.UserAgent)

	logger := config.Logger

	client.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("path", pathOf(req.URL)).
			Msg("http request")
		return nil
	})

	client.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("method", resp.Request.Method).
			Str("path", pathOf(resp.Request.URL)).
			Int("status", resp.StatusCode()).
			Int("size", len(resp.Bytes())).
			Msg("http response")
		return nil
	})

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() error {
	return c.client.Close()
}

// Do sends method to rawURL with the given headers. rawURL must already carry its
// encoded query; it is sent as-is so parameter order is kept.
func (c *Client) Do(ctx context.Context, method, rawURL string, headers map[string]string) (*Response, error) {
	req := c.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Execute(method, rawURL)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", pathOf(rawURL)).
			Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Bytes(),
	}, nil
}

// pathOf strips the query so signatures and listen keys stay out of logs.
func pathOf(rawURL string) string {
	path, _, _ := strings.Cut(rawURL, "?")
	return path
}
