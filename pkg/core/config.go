package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultRecvWindow is the staleness tolerance, in milliseconds, applied to signed requests.
const DefaultRecvWindow = 5000

// DefaultUserAgent identifies this client on every request.
const DefaultUserAgent = "kurir/1.0"

// Credentials holds API authentication credentials for an exchange.
// Either field may be empty for a client that only calls public endpoints.
type Credentials struct {
	// APIKey is the public API key identifier sent in the X-MBX-APIKEY header.
	APIKey string `json:"api_key" mapstructure:"api_key"`
	// SecretKey is the private key used only to sign requests. It is never sent.
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`
}

// String masks both keys so credentials can be logged safely.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s, SecretKey:%s}", maskKey(c.APIKey), maskKey(c.SecretKey))
}

// IsZero reports whether neither key is set.
func (c Credentials) IsZero() bool {
	return c.APIKey == "" && c.SecretKey == ""
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains the construction-time settings of a client.
type Config struct {
	MarketType MarketType `json:"market_type" mapstructure:"market_type"`
	Sandbox    bool       `json:"sandbox" mapstructure:"sandbox"`
	// Host overrides the market's base URL when set.
	Host        string       `json:"host,omitempty" mapstructure:"host" validate:"omitempty,url"`
	Credentials *Credentials `json:"credentials,omitempty" mapstructure:"credentials"`

	// Timeout bounds every request made by the client. Zero means no client deadline.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" validate:"min=0"`
	// RecvWindow is sent with every signed request, in milliseconds.
	RecvWindow int64 `json:"recv_window" mapstructure:"recv_window" validate:"min=1,max=60000"`

	UserAgent string `json:"user_agent" mapstructure:"user_agent" validate:"required"`
	// LogLevel caps the logger given to the client.
	LogLevel  string `json:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config for the given market with no timeout,
// a 5000ms receive window and the default user agent.
func DefaultConfig(market MarketType) *Config {
	return &Config{
		MarketType: market,
		RecvWindow: DefaultRecvWindow,
		UserAgent:  DefaultUserAgent,
		LogLevel:   "info",
	}
}

var validate = validator.New()

// Validate checks field constraints and that the market type is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !c.MarketType.Valid() {
		return errors.New("MarketType must be spot, usdm or coinm")
	}
	return nil
}

// BaseURL returns Host if set, otherwise the REST base URL of the configured market.
func (c *Config) BaseURL() string {
	if c.Host != "" {
		return c.Host
	}
	return c.MarketType.BaseURL(c.Sandbox)
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithSandbox enables or disables sandbox mode and returns the config for chaining.
func (c *Config) WithSandbox(sandbox bool) *Config {
	c.Sandbox = sandbox
	return c
}

// WithHost overrides the base URL and returns the config for chaining.
func (c *Config) WithHost(host string) *Config {
	c.Host = host
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRecvWindow sets the receive window in milliseconds and returns the config for chaining.
func (c *Config) WithRecvWindow(ms int64) *Config {
	c.RecvWindow = ms
	return c
}
