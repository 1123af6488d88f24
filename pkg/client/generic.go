package client

import (
	"context"
	"net/http"

	"kurir/pkg/core"
)

// GenericClient is a REST client that takes the host on every call.
type GenericClient struct {
	base *base
}

var _ Doer = (*GenericClient)(nil)

// NewGeneric creates a GenericClient. config.Host and config.MarketType are not used for routing.
func NewGeneric(config *core.Config, opts ...Option) (*GenericClient, error) {
	b, err := newBase(config, opts...)
	if err != nil {
		return nil, err
	}
	return &GenericClient{base: b}, nil
}

// Close releases idle connections.
func (c *GenericClient) Close() error {
	return c.base.close()
}

// Do executes req against req.Host.
func (c *GenericClient) Do(ctx context.Context, req *core.Request, out any) error {
	return c.base.do(ctx, req.Host, req, out)
}

// Bind returns a Doer that sends every request to host.
func (c *GenericClient) Bind(host string) Doer {
	return &Client{base: c.base, host: host}
}

func (c *GenericClient) Get(ctx context.Context, host, path string, params any, out any) error {
	return c.Do(ctx, core.NewRequest(http.MethodGet, path).SetPayload(params).SetHost(host), out)
}

func (c *GenericClient) GetSigned(ctx context.Context, host, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodGet, path, payload).SetHost(host), out)
}

func (c *GenericClient) PostSigned(ctx context.Context, host, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodPost, path, payload).SetHost(host), out)
}

func (c *GenericClient) PutSigned(ctx context.Context, host, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodPut, path, payload).SetHost(host), out)
}

func (c *GenericClient) DeleteSigned(ctx context.Context, host, path string, payload any, out any) error {
	return c.Do(ctx, signedRequest(http.MethodDelete, path, payload).SetHost(host), out)
}

func (c *GenericClient) Post(ctx context.Context, host, path, symbol string, out any) error {
	return c.Do(ctx, apiKeyRequest(http.MethodPost, path, "", symbol).SetHost(host), out)
}

func (c *GenericClient) Put(ctx context.Context, host, path, listenKey, symbol string, out any) error {
	return c.Do(ctx, apiKeyRequest(http.MethodPut, path, listenKey, symbol).SetHost(host), out)
}

func (c *GenericClient) Delete(ctx context.Context, host, path, listenKey, symbol string, out any) error {
	return c.Do(ctx, apiKeyRequest(http.MethodDelete, path, listenKey, symbol).SetHost(host), out)
}
