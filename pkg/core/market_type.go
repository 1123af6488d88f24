package core

// MarketType selects which of the exchange's REST APIs a client talks to.
type MarketType int

// Market type constants.
const (
	// MarketTypeSpot is the spot API (/api/v3).
	MarketTypeSpot MarketType = iota
	// MarketTypeUSDM is the USDⓈ-margined futures API (/fapi/v1).
	MarketTypeUSDM
	// MarketTypeCoinM is the coin-margined futures API (/dapi/v1).
	MarketTypeCoinM
)

// String returns the string representation of the market type ("spot", "usdm" or "coinm").
func (m MarketType) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return [...]string{
		"spot",
		"usdm",
		"coinm",
	}[m]
}

// Valid reports whether m is a known market type.
func (m MarketType) Valid() bool {
	return m >= MarketTypeSpot && m <= MarketTypeCoinM
}

// BaseURL returns the REST host for the market.
func (m MarketType) BaseURL(sandbox bool) string {
	switch m {
	case MarketTypeUSDM:
		if sandbox {
			return "https://testnet.binancefuture.com"
		}
		return "https://fapi.binance.com"
	case MarketTypeCoinM:
		if sandbox {
			return "https://testnet.binancefuture.com"
		}
		return "https://dapi.binance.com"
	default:
		if sandbox {
			return "https://testnet.binance.vision"
		}
		return "https://api.binance.com"
	}
}

// StreamURL returns the websocket host for user data streams of the market.
func (m MarketType) StreamURL(sandbox bool) string {
	switch m {
	case MarketTypeUSDM:
		if sandbox {
			return "wss://stream.binancefuture.com"
		}
		return "wss://fstream.binance.com"
	case MarketTypeCoinM:
		if sandbox {
			return "wss://dstream.binancefuture.com"
		}
		return "wss://dstream.binance.com"
	default:
		if sandbox {
			return "wss://testnet.binance.vision"
		}
		return "wss://stream.binance.com:9443"
	}
}
