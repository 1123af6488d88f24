package coinm

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/shopspring/decimal"
)

// Prices and quantities arrive as JSON strings and decode into apd.Decimal.
// Fields the exchange sends as bare JSON numbers use decimal.Decimal, which accepts both forms.

// ServerTime is the exchange clock in milliseconds since the epoch.
type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

// RateLimit describes one request or order limit enforced by the exchange.
type RateLimit struct {
	RateLimitType string `json:"rateLimitType"`
	Interval      string `json:"interval"`
	IntervalNum   int    `json:"intervalNum"`
	Limit         int    `json:"limit"`
}

// Filter is a symbol or exchange trading rule. Its fields depend on FilterType.
type Filter map[string]any

// Type returns the filterType field.
func (f Filter) Type() string {
	s, _ := f["filterType"].(string)
	return s
}

// ExchangeInformation is the body of /dapi/v1/exchangeInfo.
type ExchangeInformation struct {
	Timezone        string      `json:"timezone"`
	ServerTime      int64       `json:"serverTime"`
	RateLimits      []RateLimit `json:"rateLimits"`
	ExchangeFilters []Filter    `json:"exchangeFilters"`
	Symbols         []Symbol    `json:"symbols"`
}

// Symbol returns the contract named symbol.
func (e *ExchangeInformation) Symbol(symbol string) (Symbol, bool) {
	for _, s := range e.Symbols {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return Symbol{}, false
}

// Symbol describes one delivery or perpetual contract.
type Symbol struct {
	Symbol         string         `json:"symbol"`
	Pair           string         `json:"pair"`
	ContractType   ContractType   `json:"contractType"`
	DeliveryDate   int64          `json:"deliveryDate"`
	OnboardDate    int64          `json:"onboardDate"`
	ContractStatus ContractStatus `json:"contractStatus"`
	ContractSize   int64          `json:"contractSize"`
	MarginAsset    string         `json:"marginAsset"`
	BaseAsset      string         `json:"baseAsset"`
	QuoteAsset     string         `json:"quoteAsset"`

	PricePrecision     int `json:"pricePrecision"`
	QuantityPrecision  int `json:"quantityPrecision"`
	BaseAssetPrecision int `json:"baseAssetPrecision"`
	QuotePrecision     int `json:"quotePrecision"`
	EqualQtyPrecision  int `json:"equalQtyPrecision"`

	TriggerProtect        apd.Decimal `json:"triggerProtect"`
	MaintMarginPercent    apd.Decimal `json:"maintMarginPercent"`
	RequiredMarginPercent apd.Decimal `json:"requiredMarginPercent"`
	LiquidationFee        apd.Decimal `json:"liquidationFee"`
	MarketTakeBound       apd.Decimal `json:"marketTakeBound"`

	UnderlyingType    string        `json:"underlyingType"`
	UnderlyingSubType []string      `json:"underlyingSubType"`
	OrderTypes        []OrderType   `json:"orderTypes"`
	TimeInForce       []TimeInForce `json:"timeInForce"`
	Filters           []Filter      `json:"filters"`
}

// FundingRate is one historical funding payment of a perpetual contract.
type FundingRate struct {
	Symbol      string      `json:"symbol"`
	FundingTime int64       `json:"fundingTime"`
	FundingRate apd.Decimal `json:"fundingRate"`
}

// Order is an order as reported by the order query endpoints.
type Order struct {
	Symbol        string       `json:"symbol"`
	Pair          string       `json:"pair"`
	OrderID       int64        `json:"orderId"`
	ClientOrderID string       `json:"clientOrderId"`
	Side          OrderSide    `json:"side"`
	PositionSide  PositionSide `json:"positionSide"`
	Type          OrderType    `json:"type"`
	OrigType      OrderType    `json:"origType"`
	Status        OrderStatus  `json:"status"`
	TimeInForce   TimeInForce  `json:"timeInForce"`
	WorkingType   WorkingType  `json:"workingType"`
	ReduceOnly    bool         `json:"reduceOnly"`
	ClosePosition bool         `json:"closePosition"`
	PriceProtect  bool         `json:"priceProtect"`

	Price         apd.Decimal `json:"price"`
	AvgPrice      apd.Decimal `json:"avgPrice"`
	OrigQty       apd.Decimal `json:"origQty"`
	ExecutedQty   apd.Decimal `json:"executedQty"`
	CumBase       apd.Decimal `json:"cumBase"`
	StopPrice     apd.Decimal `json:"stopPrice"`
	ActivatePrice apd.Decimal `json:"activatePrice"`
	PriceRate     apd.Decimal `json:"priceRate"`

	Time       int64 `json:"time"`
	UpdateTime int64 `json:"updateTime"`
}

// AccountInformation is the body of /dapi/v1/account.
type AccountInformation struct {
	CanTrade    bool              `json:"canTrade"`
	CanDeposit  bool              `json:"canDeposit"`
	CanWithdraw bool              `json:"canWithdraw"`
	FeeTier     int               `json:"feeTier"`
	UpdateTime  int64             `json:"updateTime"`
	Assets      []AccountAsset    `json:"assets"`
	Positions   []AccountPosition `json:"positions"`
}

// AccountAsset is the margin state of one collateral asset.
type AccountAsset struct {
	Asset                  string      `json:"asset"`
	WalletBalance          apd.Decimal `json:"walletBalance"`
	UnrealizedProfit       apd.Decimal `json:"unrealizedProfit"`
	MarginBalance          apd.Decimal `json:"marginBalance"`
	MaintMargin            apd.Decimal `json:"maintMargin"`
	InitialMargin          apd.Decimal `json:"initialMargin"`
	PositionInitialMargin  apd.Decimal `json:"positionInitialMargin"`
	OpenOrderInitialMargin apd.Decimal `json:"openOrderInitialMargin"`
	CrossWalletBalance     apd.Decimal `json:"crossWalletBalance"`
	CrossUnPnl             apd.Decimal `json:"crossUnPnl"`
	AvailableBalance       apd.Decimal `json:"availableBalance"`
	MaxWithdrawAmount      apd.Decimal `json:"maxWithdrawAmount"`
	UpdateTime             int64       `json:"updateTime"`
}

// AccountPosition is the state of one position.
type AccountPosition struct {
	Symbol                 string       `json:"symbol"`
	PositionSide           PositionSide `json:"positionSide"`
	PositionAmt            apd.Decimal  `json:"positionAmt"`
	EntryPrice             apd.Decimal  `json:"entryPrice"`
	BreakEvenPrice         apd.Decimal  `json:"breakEvenPrice"`
	UnrealizedProfit       apd.Decimal  `json:"unrealizedProfit"`
	InitialMargin          apd.Decimal  `json:"initialMargin"`
	MaintMargin            apd.Decimal  `json:"maintMargin"`
	PositionInitialMargin  apd.Decimal  `json:"positionInitialMargin"`
	OpenOrderInitialMargin apd.Decimal  `json:"openOrderInitialMargin"`
	MaxQty                 apd.Decimal  `json:"maxQty"`
	Leverage               int64        `json:"leverage,string"`
	Isolated               bool         `json:"isolated"`
	UpdateTime             int64        `json:"updateTime"`
}

// AccountBalance is one row of /dapi/v1/balance.
type AccountBalance struct {
	AccountAlias       string      `json:"accountAlias"`
	Asset              string      `json:"asset"`
	Balance            apd.Decimal `json:"balance"`
	WithdrawAvailable  apd.Decimal `json:"withdrawAvailable"`
	CrossWalletBalance apd.Decimal `json:"crossWalletBalance"`
	CrossUnPnl         apd.Decimal `json:"crossUnPnl"`
	AvailableBalance   apd.Decimal `json:"availableBalance"`
	UpdateTime         int64       `json:"updateTime"`
}

// ListenKey identifies a user data stream session.
type ListenKey struct {
	ListenKey string `json:"listenKey"`
}

// LeverageBrackets is the notional tier table of one symbol or pair.
type LeverageBrackets struct {
	Symbol   string    `json:"symbol"`
	Pair     string    `json:"pair,omitempty"`
	Brackets []Bracket `json:"brackets"`
}

// Bracket is one leverage tier. Ratios are sent as JSON numbers.
type Bracket struct {
	Bracket          int             `json:"bracket"`
	InitialLeverage  int             `json:"initialLeverage"`
	QtyCap           int64           `json:"qtyCap"`
	QtyFloor         int64           `json:"qtyFloor"`
	MaintMarginRatio decimal.Decimal `json:"maintMarginRatio"`
	Cum              decimal.Decimal `json:"cum"`
}

// Name returns Symbol, or Pair when the table is keyed by pair.
func (b LeverageBrackets) Name() string {
	if b.Symbol != "" {
		return b.Symbol
	}
	return b.Pair
}
