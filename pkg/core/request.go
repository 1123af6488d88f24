package core

import "reflect"

// Param is one query parameter. Value is rendered by the codec: strings pass through,
// numbers and decimals use a locale-independent form, nil and nil pointers are omitted.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter list. The exchange verifies signatures over the exact
// parameter order, so Params is never sorted or deduplicated.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// AddOptional appends a parameter unless value is nil or a nil pointer.
func (p Params) AddOptional(key string, value any) Params {
	if value == nil {
		return p
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return p
	}
	return p.Add(key, value)
}

// Get returns the value of the first parameter named key.
func (p Params) Get(key string) (any, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return nil, false
}

// Keys returns parameter names in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, param := range p {
		keys[i] = param.Key
	}
	return keys
}

// Security is the authentication level of an endpoint.
type Security int

const (
	// SecurityNone is a public endpoint; only the user agent header is sent.
	SecurityNone Security = iota
	// SecurityAPIKey sends the API key header without a signature (listen key endpoints).
	SecurityAPIKey
	// SecuritySigned sends the API key header and appends recvWindow, timestamp and signature.
	SecuritySigned
)

// String returns the string representation of the security level.
func (s Security) String() string {
	switch s {
	case SecurityNone:
		return "NONE"
	case SecurityAPIKey:
		return "API_KEY"
	case SecuritySigned:
		return "SIGNED"
	default:
		return "UNKNOWN"
	}
}

// Request describes one REST call.
type Request struct {
	Method string `json:"method"`
	// Host is used by host-parametrized clients; host-bound clients ignore it.
	Host string `json:"host,omitempty"`
	Path string `json:"path"`
	// Query is encoded first, in order.
	Query Params `json:"query,omitempty"`
	// Payload is a struct with url tags encoded after Query, in field order.
	Payload  any      `json:"payload,omitempty"`
	Security Security `json:"security"`
	// RecvWindow overrides the client receive window when positive.
	RecvWindow int64 `json:"recv_window,omitempty"`
}

// NewRequest creates a public request for method and path.
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	r.Query = r.Query.Add(key, value)
	return r
}

func (r *Request) SetQueryParams(params Params) *Request {
	r.Query = append(r.Query, params...)
	return r
}

func (r *Request) SetPayload(payload any) *Request {
	r.Payload = payload
	return r
}

func (r *Request) SetSecurity(security Security) *Request {
	r.Security = security
	return r
}

func (r *Request) SetRecvWindow(ms int64) *Request {
	r.RecvWindow = ms
	return r
}

func (r *Request) SetHost(host string) *Request {
	r.Host = host
	return r
}
