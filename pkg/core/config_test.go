package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig(MarketTypeCoinM)

	assert.Equal(t, MarketTypeCoinM, config.MarketType)
	assert.False(t, config.Sandbox)
	assert.Empty(t, config.Host)
	assert.Nil(t, config.Credentials)
	assert.Zero(t, config.Timeout)
	assert.Equal(t, int64(5000), config.RecvWindow)
	assert.Equal(t, DefaultUserAgent, config.UserAgent)
	assert.Equal(t, "info", config.LogLevel)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid_config",
			config: DefaultConfig(MarketTypeSpot),
		},
		{
			name:   "valid_host_override",
			config: DefaultConfig(MarketTypeCoinM).WithHost("http://127.0.0.1:8080"),
		},
		{
			name:    "invalid_host",
			config:  DefaultConfig(MarketTypeCoinM).WithHost("not a url"),
			wantErr: true,
			errMsg:  "Host",
		},
		{
			name:    "negative_timeout",
			config:  DefaultConfig(MarketTypeCoinM).WithTimeout(-time.Second),
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "zero_recv_window",
			config:  DefaultConfig(MarketTypeCoinM).WithRecvWindow(0),
			wantErr: true,
			errMsg:  "RecvWindow",
		},
		{
			name:    "recv_window_too_large",
			config:  DefaultConfig(MarketTypeCoinM).WithRecvWindow(60001),
			wantErr: true,
			errMsg:  "RecvWindow",
		},
		{
			name: "missing_user_agent",
			config: &Config{
				MarketType: MarketTypeUSDM,
				RecvWindow: DefaultRecvWindow,
			},
			wantErr: true,
			errMsg:  "UserAgent",
		},
		{
			name: "unknown_log_level",
			config: &Config{
				MarketType: MarketTypeUSDM,
				RecvWindow: DefaultRecvWindow,
				UserAgent:  DefaultUserAgent,
				LogLevel:   "verbose",
			},
			wantErr: true,
			errMsg:  "LogLevel",
		},
		{
			name:    "unknown_market",
			config:  DefaultConfig(MarketType(9)),
			wantErr: true,
			errMsg:  "MarketType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errMsg), "expected error to contain %q, got %q", tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_BaseURL(t *testing.T) {
	config := DefaultConfig(MarketTypeCoinM)
	assert.Equal(t, "https://dapi.binance.com", config.BaseURL())

	config.WithSandbox(true)
	assert.Equal(t, "https://testnet.binancefuture.com", config.BaseURL())

	config.WithHost("http://localhost:9000")
	assert.Equal(t, "http://localhost:9000", config.BaseURL())
}

func TestConfig_WithCredentials(t *testing.T) {
	config := DefaultConfig(MarketTypeCoinM)
	creds := &Credentials{
		APIKey:    "test-key",
		SecretKey: "test-secret",
	}

	result := config.WithCredentials(creds)

	assert.Equal(t, config, result)
	assert.Equal(t, creds, config.Credentials)
}

func TestConfig_WithSandbox(t *testing.T) {
	config := DefaultConfig(MarketTypeCoinM)
	result := config.WithSandbox(true)

	assert.Equal(t, config, result)
	assert.True(t, config.Sandbox)
}

func TestConfig_WithTimeout(t *testing.T) {
	config := DefaultConfig(MarketTypeCoinM)
	result := config.WithTimeout(30 * time.Second)

	assert.Equal(t, config, result)
	assert.Equal(t, 30*time.Second, config.Timeout)
}

func TestConfig_WithRecvWindow(t *testing.T) {
	config := DefaultConfig(MarketTypeCoinM)
	result := config.WithRecvWindow(10000)

	assert.Equal(t, config, result)
	assert.Equal(t, int64(10000), config.RecvWindow)
}

func TestCredentials_String(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"empty", Credentials{}, "Credentials{APIKey:, SecretKey:}"},
		{"short", Credentials{APIKey: "abc", SecretKey: "xyz"}, "Credentials{APIKey:****, SecretKey:****}"},
		{"long", Credentials{APIKey: "abcd1234efgh", SecretKey: "secret-key-value"}, "Credentials{APIKey:abcd****efgh, SecretKey:secr****alue}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.String())
			assert.NotContains(t, tt.creds.String(), "secret-key-value")
		})
	}
}

func TestCredentials_IsZero(t *testing.T) {
	assert.True(t, Credentials{}.IsZero())
	assert.False(t, Credentials{APIKey: "k"}.IsZero())
	assert.False(t, Credentials{SecretKey: "s"}.IsZero())
}

func TestMarketType(t *testing.T) {
	tests := []struct {
		market  MarketType
		name    string
		rest    string
		stream  string
		sandbox string
	}{
		{MarketTypeSpot, "spot", "https://api.binance.com", "wss://stream.binance.com:9443", "https://testnet.binance.vision"},
		{MarketTypeUSDM, "usdm", "https://fapi.binance.com", "wss://fstream.binance.com", "https://testnet.binancefuture.com"},
		{MarketTypeCoinM, "coinm", "https://dapi.binance.com", "wss://dstream.binance.com", "https://testnet.binancefuture.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.market.Valid())
			assert.Equal(t, tt.name, tt.market.String())
			assert.Equal(t, tt.rest, tt.market.BaseURL(false))
			assert.Equal(t, tt.sandbox, tt.market.BaseURL(true))
			assert.Equal(t, tt.stream, tt.market.StreamURL(false))
		})
	}

	assert.False(t, MarketType(-1).Valid())
	assert.Equal(t, "unknown", MarketType(3).String())
}
