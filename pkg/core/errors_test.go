package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindEncoding, "ENCODING"},
		{KindTransport, "TRANSPORT"},
		{KindDeserialization, "DESERIALIZATION"},
		{KindUnauthorized, "UNAUTHORIZED"},
		{KindInternalServerError, "INTERNAL_SERVER_ERROR"},
		{KindServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{KindUnexpectedStatus, "UNEXPECTED_STATUS"},
		{KindInvalidPrice, "INVALID_PRICE"},
		{KindInvalidListenKey, "INVALID_LISTEN_KEY"},
		{KindBusiness, "BUSINESS"},
		{KindMissingCredentials, "MISSING_CREDENTIALS"},
		{ErrorKind(-1), "UNKNOWN"},
		{ErrorKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestError_Error(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "business",
			err:  &Error{Kind: KindBusiness, StatusCode: 400, Code: -2010, Message: "Account has insufficient balance"},
			want: "BUSINESS (400/-2010): Account has insufficient balance",
		},
		{
			name: "status_with_cause",
			err:  &Error{Kind: KindDeserialization, StatusCode: 200, Err: cause},
			want: "DESERIALIZATION (200): connection refused",
		},
		{
			name: "status_only",
			err:  NewStatusError(KindServiceUnavailable, 503),
			want: "SERVICE_UNAVAILABLE (503)",
		},
		{
			name: "message_and_cause",
			err:  &Error{Kind: KindTransport, Message: "dial", Err: cause},
			want: "TRANSPORT: dial: connection refused",
		},
		{
			name: "cause_only",
			err:  NewError(KindTransport, cause),
			want: "TRANSPORT: connection refused",
		},
		{
			name: "message_only",
			err:  &Error{Kind: KindEncoding, Message: "missing host"},
			want: "ENCODING: missing host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := NewError(KindMissingCredentials, ErrNoCredentials)
	wrapped := fmt.Errorf("place order: %w", err)

	assert.ErrorIs(t, wrapped, ErrNoCredentials)

	var target *Error
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, KindMissingCredentials, target.Kind)
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("wrap: %w", NewStatusError(KindUnauthorized, 401)))
	assert.True(t, ok)
	assert.Equal(t, KindUnauthorized, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		terminal  bool
		business  bool
	}{
		{"transport", NewError(KindTransport, errors.New("eof")), true, false, false},
		{"internal", NewStatusError(KindInternalServerError, 500), true, false, false},
		{"unavailable", NewStatusError(KindServiceUnavailable, 503), true, false, false},
		{"unexpected", NewStatusError(KindUnexpectedStatus, 429), false, false, false},
		{"unauthorized", NewStatusError(KindUnauthorized, 401), false, true, false},
		{"encoding", &Error{Kind: KindEncoding}, false, true, false},
		{"missing_credentials", NewError(KindMissingCredentials, ErrNoCredentials), false, true, false},
		{"invalid_price", ClassifyContentError(ContentError{Code: -1013, Msg: "Invalid price."}), false, true, true},
		{"business", ClassifyContentError(ContentError{Code: -2011, Msg: "Unknown order sent."}), false, true, true},
		{"plain", errors.New("plain"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
			assert.Equal(t, tt.terminal, IsTerminal(tt.err))
			assert.Equal(t, tt.business, IsBusinessError(tt.err))
		})
	}
}

func TestClassifyContentError(t *testing.T) {
	tests := []struct {
		name string
		ce   ContentError
		want ErrorKind
	}{
		{"invalid_price", ContentError{Code: -1013, Msg: "Invalid price."}, KindInvalidPrice},
		{"lot_size_stays_business", ContentError{Code: -1013, Msg: "Filter failure: LOT_SIZE"}, KindBusiness},
		{"invalid_listen_key", ContentError{Code: -1125, Msg: "This listenKey does not exist."}, KindInvalidListenKey},
		{"listen_key_any_message", ContentError{Code: -1125, Msg: ""}, KindInvalidListenKey},
		{"unknown_code", ContentError{Code: -4164, Msg: "Order's notional must be no smaller than 5.0"}, KindBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyContentError(tt.ce)

			assert.Equal(t, tt.want, err.Kind)
			assert.Equal(t, http.StatusBadRequest, err.StatusCode)
			assert.Equal(t, tt.ce, err.ContentError())
			assert.True(t, IsErrorCode(err, tt.ce.Code))
		})
	}
}

func TestIsErrorCode(t *testing.T) {
	err := fmt.Errorf("cancel: %w", ClassifyContentError(ContentError{Code: -2011, Msg: "Unknown order sent."}))

	assert.True(t, IsErrorCode(err, -2011))
	assert.False(t, IsErrorCode(err, -1013))
	assert.False(t, IsErrorCode(errors.New("plain"), -2011))
}
