package coinm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"

	"kurir/internal/ws"
	"kurir/pkg/core"
)

// User data stream event types.
const (
	EventMarginCall       = "MARGIN_CALL"
	EventAccountUpdate    = "ACCOUNT_UPDATE"
	EventOrderTradeUpdate = "ORDER_TRADE_UPDATE"
	EventListenKeyExpired = "listenKeyExpired"
)

// Millis is a millisecond timestamp that decodes from a JSON number or a quoted number.
type Millis int64

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parse millis: %w", err)
	}
	*m = Millis(v)
	return nil
}

// UserEvent is one decoded user data stream message. Exactly one of the payload fields is
// set for known event types; unknown types carry only Type and EventTime.
type UserEvent struct {
	Type      string
	EventTime Millis

	MarginCall       *MarginCallEvent
	AccountUpdate    *AccountUpdateEvent
	OrderTradeUpdate *OrderTradeUpdateEvent
	ListenKeyExpired *ListenKeyExpiredEvent
}

type eventHeader struct {
	Type      string `json:"e"`
	EventTime Millis `json:"E"`
}

// Every event struct declares both "e" and "E" so neither key falls back to a
// case-insensitive match on the other.

// MarginCallEvent is pushed when a position's margin ratio is too high.
type MarginCallEvent struct {
	Type               string               `json:"e"`
	EventTime          Millis               `json:"E"`
	AccountAlias       string               `json:"i"`
	CrossWalletBalance apd.Decimal          `json:"cw"`
	Positions          []MarginCallPosition `json:"p"`
}

type MarginCallPosition struct {
	Symbol                    string      `json:"s"`
	PositionSide              string      `json:"ps"`
	PositionAmount            apd.Decimal `json:"pa"`
	MarginType                string      `json:"mt"`
	IsolatedWallet            apd.Decimal `json:"iw"`
	MarkPrice                 apd.Decimal `json:"mp"`
	UnrealizedPnL             apd.Decimal `json:"up"`
	MaintenanceMarginRequired apd.Decimal `json:"mm"`
}

// AccountUpdateEvent is pushed when a balance or position changes.
type AccountUpdateEvent struct {
	Type            string     `json:"e"`
	EventTime       Millis     `json:"E"`
	TransactionTime Millis     `json:"T"`
	AccountAlias    string     `json:"i"`
	Update          UpdateData `json:"a"`
}

type UpdateData struct {
	Reason    string           `json:"m"`
	Balances  []BalanceUpdate  `json:"B"`
	Positions []PositionUpdate `json:"P"`
}

type BalanceUpdate struct {
	Asset              string      `json:"a"`
	WalletBalance      apd.Decimal `json:"wb"`
	CrossWalletBalance apd.Decimal `json:"cw"`
	BalanceChange      apd.Decimal `json:"bc"`
}

type PositionUpdate struct {
	Symbol              string       `json:"s"`
	PositionAmount      apd.Decimal  `json:"pa"`
	EntryPrice          apd.Decimal  `json:"ep"`
	BreakEvenPrice      apd.Decimal  `json:"bep"`
	AccumulatedRealized apd.Decimal  `json:"cr"`
	UnrealizedPnL       apd.Decimal  `json:"up"`
	MarginType          string       `json:"mt"`
	IsolatedWallet      apd.Decimal  `json:"iw"`
	PositionSide        PositionSide `json:"ps"`
}

// OrderTradeUpdateEvent is pushed when an order is created, filled, canceled or expires.
type OrderTradeUpdateEvent struct {
	Type            string      `json:"e"`
	EventTime       Millis      `json:"E"`
	TransactionTime Millis      `json:"T"`
	AccountAlias    string      `json:"i"`
	Order           OrderDetail `json:"o"`
}

// OrderDetail is the order snapshot carried by ORDER_TRADE_UPDATE.
// Single-letter keys come in case pairs (s/S, x/X, l/L, n/N, t/T); both members are declared.
type OrderDetail struct {
	Symbol          string        `json:"s"`
	Side            OrderSide     `json:"S"`
	ClientOrderID   string        `json:"c"`
	Type            OrderType     `json:"o"`
	OrigType        OrderType     `json:"ot"`
	TimeInForce     TimeInForce   `json:"f"`
	OrigQty         apd.Decimal   `json:"q"`
	OrigPrice       apd.Decimal   `json:"p"`
	AvgPrice        apd.Decimal   `json:"ap"`
	StopPrice       apd.Decimal   `json:"sp"`
	ExecutionType   ExecutionType `json:"x"`
	Status          OrderStatus   `json:"X"`
	OrderID         int64         `json:"i"`
	LastFilledQty   apd.Decimal   `json:"l"`
	CumFilledQty    apd.Decimal   `json:"z"`
	LastFilledPrice apd.Decimal   `json:"L"`
	MarginAsset     string        `json:"ma"`
	Commission      apd.Decimal   `json:"n"`
	CommissionAsset string        `json:"N"`
	TradeTime       Millis        `json:"T"`
	TradeID         int64         `json:"t"`
	RealizedProfit  apd.Decimal   `json:"rp"`
	BidNotional     apd.Decimal   `json:"b"`
	AskNotional     apd.Decimal   `json:"a"`
	IsMaker         bool          `json:"m"`
	ReduceOnly      bool          `json:"R"`
	WorkingType     WorkingType   `json:"wt"`
	PositionSide    PositionSide  `json:"ps"`
	ClosePosition   bool          `json:"cp"`
	ActivationPrice apd.Decimal   `json:"AP"`
	CallbackRate    apd.Decimal   `json:"cr"`
	PriceProtect    bool          `json:"pP"`
}

// ListenKeyExpiredEvent is pushed once when the listen key expires. The stream then closes.
type ListenKeyExpiredEvent struct {
	Type      string `json:"e"`
	EventTime Millis `json:"E"`
	ListenKey string `json:"listenKey"`
}

// DecodeUserEvent decodes one stream message by its "e" field.
func DecodeUserEvent(data []byte) (*UserEvent, error) {
	var header eventHeader
	if err := sonic.Unmarshal(data, &header); err != nil {
		return nil, &core.Error{Kind: core.KindDeserialization, Message: "event header", Err: err}
	}

	event := &UserEvent{Type: header.Type, EventTime: header.EventTime}

	var target any
	switch header.Type {
	case EventMarginCall:
		event.MarginCall = &MarginCallEvent{}
		target = event.MarginCall
	case EventAccountUpdate:
		event.AccountUpdate = &AccountUpdateEvent{}
		target = event.AccountUpdate
	case EventOrderTradeUpdate:
		event.OrderTradeUpdate = &OrderTradeUpdateEvent{}
		target = event.OrderTradeUpdate
	case EventListenKeyExpired:
		event.ListenKeyExpired = &ListenKeyExpiredEvent{}
		target = event.ListenKeyExpired
	default:
		return event, nil
	}

	if err := sonic.Unmarshal(data, target); err != nil {
		return nil, &core.Error{Kind: core.KindDeserialization, Message: header.Type, Err: err}
	}
	return event, nil
}

// StreamURL returns the user data stream endpoint of listenKey under base.
func StreamURL(base, listenKey string) string {
	return strings.TrimRight(base, "/") + "/ws/" + listenKey
}

// UserDataStream consumes one user data stream session.
type UserDataStream struct {
	conn   *ws.Client
	logger zerolog.Logger
}

// DialUserData connects to the user data stream of listenKey. base is the websocket host,
// for example core.MarketTypeCoinM.StreamURL(false).
func DialUserData(ctx context.Context, base, listenKey string, logger zerolog.Logger) (*UserDataStream, error) {
	if listenKey == "" {
		return nil, &core.Error{Kind: core.KindEncoding, Message: "listen key is required"}
	}

	conn := ws.NewClient(ws.Config{
		URL:    StreamURL(base, listenKey),
		Logger: logger,
	})
	if err := conn.Connect(ctx); err != nil {
		return nil, &core.Error{Kind: core.KindTransport, Err: err}
	}

	return &UserDataStream{conn: conn, logger: logger}, nil
}

// Run decodes messages and calls handle for each event until ctx is done or the session
// ends. Messages that fail to decode are logged and skipped. Run returns nil after Close.
func (s *UserDataStream) Run(ctx context.Context, handle func(*UserEvent)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data := <-s.conn.Messages():
			s.dispatch(data, handle)
		case <-s.conn.Done():
			for {
				select {
				case data := <-s.conn.Messages():
					s.dispatch(data, handle)
				default:
					if err := s.conn.Err(); err != nil && !errors.Is(err, ws.ErrClosed) {
						return &core.Error{Kind: core.KindTransport, Err: err}
					}
					return nil
				}
			}
		}
	}
}

func (s *UserDataStream) dispatch(data []byte, handle func(*UserEvent)) {
	event, err := DecodeUserEvent(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("skipping undecodable stream event")
		return
	}
	handle(event)
}

// Close ends the session.
func (s *UserDataStream) Close() error {
	return s.conn.Close()
}
