package coinm

import (
	"fmt"
	"strings"
)

// OrderSide represents the direction of an order.
type OrderSide int

const (
	SideBuy OrderSide = iota
	SideSell
)

var orderSideNames = []string{"BUY", "SELL"}

func (s OrderSide) String() string { return enumName(orderSideNames, int(s)) }

// MarshalText renders the wire name, which is also the query parameter value.
func (s OrderSide) MarshalText() ([]byte, error) { return enumText(orderSideNames, "order side", int(s)) }

// UnmarshalText accepts both uppercase and lowercase names.
func (s *OrderSide) UnmarshalText(text []byte) error {
	return parseEnum(orderSideNames, "order side", text, s)
}

// OrderType represents how a futures order is executed.
type OrderType int

const (
	TypeLimit OrderType = iota
	TypeMarket
	// TypeStop triggers a limit order at the stop price.
	TypeStop
	// TypeStopMarket triggers a market order at the stop price.
	TypeStopMarket
	TypeTakeProfit
	TypeTakeProfitMarket
	// TypeTrailingStopMarket follows the price by CallbackRate once ActivationPrice is reached.
	TypeTrailingStopMarket
	// TypeLiquidation appears only on orders created by the liquidation engine.
	TypeLiquidation
)

var orderTypeNames = []string{
	"LIMIT", "MARKET", "STOP", "STOP_MARKET", "TAKE_PROFIT", "TAKE_PROFIT_MARKET",
	"TRAILING_STOP_MARKET", "LIQUIDATION",
}

func (t OrderType) String() string { return enumName(orderTypeNames, int(t)) }

func (t OrderType) MarshalText() ([]byte, error) { return enumText(orderTypeNames, "order type", int(t)) }

func (t *OrderType) UnmarshalText(text []byte) error {
	return parseEnum(orderTypeNames, "order type", text, t)
}

// OrderStatus represents the current state of an order.
type OrderStatus int

const (
	StatusNew OrderStatus = iota
	StatusPartiallyFilled
	StatusFilled
	StatusCanceled
	StatusRejected
	StatusExpired
	StatusExpiredInMatch
)

var orderStatusNames = []string{
	"NEW", "PARTIALLY_FILLED", "FILLED", "CANCELED", "REJECTED", "EXPIRED", "EXPIRED_IN_MATCH",
}

func (s OrderStatus) String() string { return enumName(orderStatusNames, int(s)) }

// IsTerminal returns true if no further fills or cancels are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusRejected ||
		s == StatusExpired || s == StatusExpiredInMatch
}

func (s OrderStatus) MarshalText() ([]byte, error) { return enumText(orderStatusNames, "order status", int(s)) }

func (s *OrderStatus) UnmarshalText(text []byte) error {
	return parseEnum(orderStatusNames, "order status", text, s)
}

// TimeInForce specifies how long an order remains active.
type TimeInForce int

const (
	// GTC (Good Till Canceled) remains active until filled or canceled.
	GTC TimeInForce = iota
	// IOC (Immediate or Cancel) fills what it can immediately and cancels the rest.
	IOC
	// FOK (Fill or Kill) must fill completely or is canceled.
	FOK
	// GTX (Good Till Crossing) is post-only; it is canceled if it would take liquidity.
	GTX
)

var timeInForceNames = []string{"GTC", "IOC", "FOK", "GTX"}

func (t TimeInForce) String() string { return enumName(timeInForceNames, int(t)) }

func (t TimeInForce) MarshalText() ([]byte, error) { return enumText(timeInForceNames, "time in force", int(t)) }

func (t *TimeInForce) UnmarshalText(text []byte) error {
	return parseEnum(timeInForceNames, "time in force", text, t)
}

// PositionSide selects the position an order applies to. BOTH is used in one-way mode.
type PositionSide int

const (
	PositionBoth PositionSide = iota
	PositionLong
	PositionShort
)

var positionSideNames = []string{"BOTH", "LONG", "SHORT"}

func (p PositionSide) String() string { return enumName(positionSideNames, int(p)) }

func (p PositionSide) MarshalText() ([]byte, error) { return enumText(positionSideNames, "position side", int(p)) }

func (p *PositionSide) UnmarshalText(text []byte) error {
	return parseEnum(positionSideNames, "position side", text, p)
}

// WorkingType selects the price that triggers stop orders.
type WorkingType int

const (
	WorkingContractPrice WorkingType = iota
	WorkingMarkPrice
)

var workingTypeNames = []string{"CONTRACT_PRICE", "MARK_PRICE"}

func (w WorkingType) String() string { return enumName(workingTypeNames, int(w)) }

func (w WorkingType) MarshalText() ([]byte, error) { return enumText(workingTypeNames, "working type", int(w)) }

func (w *WorkingType) UnmarshalText(text []byte) error {
	return parseEnum(workingTypeNames, "working type", text, w)
}

// ExecutionType is the reason an ORDER_TRADE_UPDATE event was pushed.
type ExecutionType int

const (
	ExecutionNew ExecutionType = iota
	ExecutionCanceled
	ExecutionCalculated
	ExecutionExpired
	ExecutionTrade
	ExecutionAmendment
)

var executionTypeNames = []string{"NEW", "CANCELED", "CALCULATED", "EXPIRED", "TRADE", "AMENDMENT"}

func (e ExecutionType) String() string { return enumName(executionTypeNames, int(e)) }

func (e ExecutionType) MarshalText() ([]byte, error) { return enumText(executionTypeNames, "execution type", int(e)) }

func (e *ExecutionType) UnmarshalText(text []byte) error {
	return parseEnum(executionTypeNames, "execution type", text, e)
}

// ResponseType selects the body returned by order placement.
type ResponseType int

const (
	ResponseACK ResponseType = iota
	ResponseResult
)

var responseTypeNames = []string{"ACK", "RESULT"}

func (r ResponseType) String() string { return enumName(responseTypeNames, int(r)) }

func (r ResponseType) MarshalText() ([]byte, error) { return enumText(responseTypeNames, "response type", int(r)) }

func (r *ResponseType) UnmarshalText(text []byte) error {
	return parseEnum(responseTypeNames, "response type", text, r)
}

// ContractType is the delivery schedule of a contract.
type ContractType int

const (
	ContractPerpetual ContractType = iota
	ContractCurrentMonth
	ContractNextMonth
	ContractCurrentQuarter
	ContractNextQuarter
	ContractPerpetualDelivering
	ContractCurrentQuarterDelivering
	ContractNextQuarterDelivering
	// ContractNone is reported for symbols that are no longer listed.
	ContractNone
)

var contractTypeNames = []string{
	"PERPETUAL", "CURRENT_MONTH", "NEXT_MONTH", "CURRENT_QUARTER", "NEXT_QUARTER",
	"PERPETUAL DELIVERING", "CURRENT_QUARTER DELIVERING", "NEXT_QUARTER DELIVERING", "",
}

func (c ContractType) String() string { return enumName(contractTypeNames, int(c)) }

func (c ContractType) MarshalText() ([]byte, error) { return enumText(contractTypeNames, "contract type", int(c)) }

func (c *ContractType) UnmarshalText(text []byte) error {
	return parseEnum(contractTypeNames, "contract type", text, c)
}

// ContractStatus is the trading state of a contract.
type ContractStatus int

const (
	ContractPendingTrading ContractStatus = iota
	ContractTrading
	ContractPreDelivering
	ContractDelivering
	ContractDelivered
	ContractPreSettle
	ContractSettling
	ContractClose
)

var contractStatusNames = []string{
	"PENDING_TRADING", "TRADING", "PRE_DELIVERING", "DELIVERING", "DELIVERED",
	"PRE_SETTLE", "SETTLING", "CLOSE",
}

func (c ContractStatus) String() string { return enumName(contractStatusNames, int(c)) }

func (c ContractStatus) MarshalText() ([]byte, error) { return enumText(contractStatusNames, "contract status", int(c)) }

func (c *ContractStatus) UnmarshalText(text []byte) error {
	return parseEnum(contractStatusNames, "contract status", text, c)
}

// enumText rejects values outside names so they never reach the wire.
func enumText(names []string, kind string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("unknown %s %d", kind, i)
	}
	return []byte(names[i]), nil
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "UNKNOWN"
	}
	return names[i]
}

// parseEnum matches text case-insensitively against names and stores the index in dst.
func parseEnum[T ~int](names []string, kind string, text []byte, dst *T) error {
	s := strings.ToUpper(string(text))
	for i, name := range names {
		if name == s {
			*dst = T(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", kind, text)
}
