package core

import (
	"errors"
	"net/http"
)

// Exchange error codes with a dedicated ErrorKind.
const (
	CodeInvalidPrice     = -1013
	CodeInvalidListenKey = -1125
)

// MsgInvalidPrice is the message the exchange pairs with CodeInvalidPrice for price filter failures.
// Other -1013 messages (lot size, notional) stay generic business errors.
const MsgInvalidPrice = "Invalid price."

// contentErrorRule maps a (code, msg) pair to a kind. An empty Msg matches any message.
type contentErrorRule struct {
	Code int
	Msg  string
	Kind ErrorKind
}

// contentErrorRules is checked in order; the first match wins.
var contentErrorRules = []contentErrorRule{
	{Code: CodeInvalidPrice, Msg: MsgInvalidPrice, Kind: KindInvalidPrice},
	{Code: CodeInvalidListenKey, Kind: KindInvalidListenKey},
}

func (r contentErrorRule) matches(ce ContentError) bool {
	if r.Code != ce.Code {
		return false
	}
	return r.Msg == "" || r.Msg == ce.Msg
}

// ClassifyContentError maps a 400 body to its taxonomy member.
// Unmatched pairs become KindBusiness carrying the code and message.
func ClassifyContentError(ce ContentError) *Error {
	kind := KindBusiness
	for _, rule := range contentErrorRules {
		if rule.matches(ce) {
			kind = rule.Kind
			break
		}
	}
	return &Error{
		Kind:       kind,
		StatusCode: http.StatusBadRequest,
		Code:       ce.Code,
		Message:    ce.Msg,
	}
}

// IsErrorCode reports whether err carries the given exchange error code.
func IsErrorCode(err error, code int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
