package client

import (
	"net/http"

	"github.com/bytedance/sonic"

	"kurir/pkg/core"
)

// Empty decodes the `{}` body returned by ping and listen key refresh endpoints.
type Empty struct{}

// Interpret classifies a response by status and decodes the body accordingly.
// On 200 the body is decoded into out; a nil out discards it. On 400 the body is a
// ContentError mapped through the error table. Every other status is an error.
func Interpret(status int, body []byte, out any) error {
	switch status {
	case http.StatusOK:
		if out == nil {
			return nil
		}
		if err := sonic.Unmarshal(body, out); err != nil {
			return &core.Error{Kind: core.KindDeserialization, StatusCode: status, Err: err}
		}
		return nil

	case http.StatusBadRequest:
		var ce core.ContentError
		if err := sonic.Unmarshal(body, &ce); err != nil {
			return &core.Error{Kind: core.KindDeserialization, StatusCode: status, Err: err}
		}
		return core.ClassifyContentError(ce)

	case http.StatusUnauthorized:
		return core.NewStatusError(core.KindUnauthorized, status)

	case http.StatusInternalServerError:
		return core.NewStatusError(core.KindInternalServerError, status)

	case http.StatusServiceUnavailable:
		return core.NewStatusError(core.KindServiceUnavailable, status)

	default:
		return core.NewStatusError(core.KindUnexpectedStatus, status)
	}
}
