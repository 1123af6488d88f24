package coinm

import (
	"context"
	"net/http"

	"kurir/pkg/client"
	"kurir/pkg/core"
)

// General covers connectivity and exchange metadata. All endpoints are public.
type General struct {
	doer client.Doer
}

// Ping tests connectivity.
func (g *General) Ping(ctx context.Context) error {
	_, err := client.Send[client.Empty](ctx, g.doer, core.NewRequest(http.MethodGet, PathPing))
	return err
}

// ServerTime returns the exchange clock.
func (g *General) ServerTime(ctx context.Context) (ServerTime, error) {
	return client.Send[ServerTime](ctx, g.doer, core.NewRequest(http.MethodGet, PathTime))
}

// ExchangeInfo returns trading rules and symbol information.
func (g *General) ExchangeInfo(ctx context.Context) (ExchangeInformation, error) {
	return client.Send[ExchangeInformation](ctx, g.doer, core.NewRequest(http.MethodGet, PathExchangeInfo))
}
