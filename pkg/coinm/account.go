package coinm

import (
	"context"
	"net/http"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"

	"kurir/pkg/client"
	"kurir/pkg/core"
)

// Account covers orders, balances and positions. All endpoints are signed.
type Account struct {
	doer client.Doer
}

// OrderRequest is the payload of a new order. Fields are sent in declaration order;
// nil pointers and empty strings are left out.
type OrderRequest struct {
	Symbol           string        `url:"symbol" validate:"required"`
	Side             OrderSide     `url:"side"`
	PositionSide     *PositionSide `url:"positionSide,omitempty"`
	Type             OrderType     `url:"type"`
	TimeInForce      *TimeInForce  `url:"timeInForce,omitempty"`
	Quantity         *apd.Decimal  `url:"quantity,omitempty"`
	ReduceOnly       *bool         `url:"reduceOnly,omitempty"`
	Price            *apd.Decimal  `url:"price,omitempty"`
	NewClientOrderID string        `url:"newClientOrderId,omitempty" validate:"omitempty,max=36"`
	StopPrice        *apd.Decimal  `url:"stopPrice,omitempty"`
	ClosePosition    *bool         `url:"closePosition,omitempty"`
	ActivationPrice  *apd.Decimal  `url:"activationPrice,omitempty"`
	CallbackRate     *apd.Decimal  `url:"callbackRate,omitempty"`
	WorkingType      *WorkingType  `url:"workingType,omitempty"`
	PriceProtect     *bool         `url:"priceProtect,omitempty"`
	NewOrderRespType *ResponseType `url:"newOrderRespType,omitempty"`
}

// LimitOrder returns a GTC limit order request.
func LimitOrder(symbol string, side OrderSide, quantity, price *apd.Decimal) OrderRequest {
	tif := GTC
	return OrderRequest{
		Symbol:      symbol,
		Side:        side,
		Type:        TypeLimit,
		TimeInForce: &tif,
		Quantity:    quantity,
		Price:       price,
	}
}

// MarketOrder returns a market order request.
func MarketOrder(symbol string, side OrderSide, quantity *apd.Decimal) OrderRequest {
	return OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     TypeMarket,
		Quantity: quantity,
	}
}

// OrderQuery identifies an order by exchange or client id.
type OrderQuery struct {
	Symbol            string `url:"symbol" validate:"required"`
	OrderID           int64  `url:"orderId,omitempty"`
	OrigClientOrderID string `url:"origClientOrderId,omitempty"`
}

var validate = validator.New()

func validateRequest(v any) error {
	if err := validate.Struct(v); err != nil {
		return &core.Error{Kind: core.KindEncoding, Message: "invalid request", Err: err}
	}
	return nil
}

// OpenOrders returns open orders of symbol.
func (a *Account) OpenOrders(ctx context.Context, symbol string) ([]Order, error) {
	if symbol == "" {
		return nil, &core.Error{Kind: core.KindEncoding, Err: errEmptySymbol}
	}
	req := core.NewRequest(http.MethodGet, PathOpenOrders).
		SetQuery("symbol", symbol).
		SetSecurity(core.SecuritySigned)
	return client.Send[[]Order](ctx, a.doer, req)
}

// AllOpenOrders returns open orders of every symbol.
func (a *Account) AllOpenOrders(ctx context.Context) ([]Order, error) {
	req := core.NewRequest(http.MethodGet, PathOpenOrders).
		SetSecurity(core.SecuritySigned)
	return client.Send[[]Order](ctx, a.doer, req)
}

// AccountInformation returns assets and positions.
func (a *Account) AccountInformation(ctx context.Context) (AccountInformation, error) {
	req := core.NewRequest(http.MethodGet, PathAccount).
		SetSecurity(core.SecuritySigned)
	return client.Send[AccountInformation](ctx, a.doer, req)
}

// AccountBalance returns the balance of every collateral asset.
func (a *Account) AccountBalance(ctx context.Context) ([]AccountBalance, error) {
	req := core.NewRequest(http.MethodGet, PathBalance).
		SetSecurity(core.SecuritySigned)
	return client.Send[[]AccountBalance](ctx, a.doer, req)
}

// PlaceOrder submits a new order.
func (a *Account) PlaceOrder(ctx context.Context, order OrderRequest) (Order, error) {
	if err := validateRequest(&order); err != nil {
		return Order{}, err
	}
	req := core.NewRequest(http.MethodPost, PathOrder).
		SetPayload(order).
		SetSecurity(core.SecuritySigned)
	return client.Send[Order](ctx, a.doer, req)
}

// QueryOrder returns one order.
func (a *Account) QueryOrder(ctx context.Context, query OrderQuery) (Order, error) {
	if err := validateQuery(&query); err != nil {
		return Order{}, err
	}
	req := core.NewRequest(http.MethodGet, PathOrder).
		SetPayload(query).
		SetSecurity(core.SecuritySigned)
	return client.Send[Order](ctx, a.doer, req)
}

// CancelOrder cancels one open order.
func (a *Account) CancelOrder(ctx context.Context, query OrderQuery) (Order, error) {
	if err := validateQuery(&query); err != nil {
		return Order{}, err
	}
	req := core.NewRequest(http.MethodDelete, PathOrder).
		SetPayload(query).
		SetSecurity(core.SecuritySigned)
	return client.Send[Order](ctx, a.doer, req)
}

func validateQuery(q *OrderQuery) error {
	if err := validateRequest(q); err != nil {
		return err
	}
	if q.OrderID == 0 && q.OrigClientOrderID == "" {
		return &core.Error{Kind: core.KindEncoding, Message: "orderId or origClientOrderId is required"}
	}
	return nil
}

// GetLeverageBrackets returns the notional tiers of symbol, or of every symbol when symbol is
// empty. The endpoint lives under /dapi/v2, so it is sent through a host-parametrized client.
func GetLeverageBrackets(ctx context.Context, c *client.GenericClient, host, symbol string) ([]LeverageBrackets, error) {
	req := core.NewRequest(http.MethodGet, PathLeverageBracket).
		SetHost(host).
		SetSecurity(core.SecuritySigned)
	if symbol != "" {
		req.SetQuery("symbol", symbol)
	}
	return client.Send[[]LeverageBrackets](ctx, c, req)
}
