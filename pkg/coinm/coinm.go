// Package coinm wraps the COIN-M futures REST endpoints and user data stream.
//
// Every service is a thin layer over client.Doer: it builds a core.Request, picks the
// security level of the endpoint and decodes the body into the models of this package.
package coinm

import (
	"errors"
	"fmt"

	"kurir/pkg/client"
	"kurir/pkg/core"
)

// Endpoint paths.
const (
	PathPing            = "/dapi/v1/ping"
	PathTime            = "/dapi/v1/time"
	PathExchangeInfo    = "/dapi/v1/exchangeInfo"
	PathFundingRate     = "/dapi/v1/fundingRate"
	PathOpenOrders      = "/dapi/v1/openOrders"
	PathOrder           = "/dapi/v1/order"
	PathAccount         = "/dapi/v1/account"
	PathBalance         = "/dapi/v1/balance"
	PathListenKey       = "/dapi/v1/listenKey"
	PathLeverageBracket = "/dapi/v2/leverageBracket"
)

// API groups the COIN-M services over one host-bound client.
type API struct {
	General    *General
	Market     *Market
	Account    *Account
	UserStream *UserStream

	rest *client.Client
}

// New creates the COIN-M services. config.MarketType must be core.MarketTypeCoinM.
func New(config *core.Config, opts ...client.Option) (*API, error) {
	if config.MarketType != core.MarketTypeCoinM {
		return nil, fmt.Errorf("coinm: market type %s", config.MarketType)
	}

	rest, err := client.New(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return NewWithDoer(rest, rest), nil
}

// NewWithDoer builds the services on an existing Doer. rest, when set, is closed by Close.
func NewWithDoer(d client.Doer, rest *client.Client) *API {
	return &API{
		General:    &General{doer: d},
		Market:     &Market{doer: d},
		Account:    &Account{doer: d},
		UserStream: &UserStream{doer: d},
		rest:       rest,
	}
}

// Close releases the underlying client.
func (a *API) Close() error {
	if a.rest == nil {
		return nil
	}
	return a.rest.Close()
}

var errEmptySymbol = errors.New("symbol is required")
