package coinm

import (
	"context"
	"net/http"

	"kurir/pkg/client"
	"kurir/pkg/core"
)

// UserStream manages the listen key of a user data stream. The endpoints need the API key
// header but no signature.
type UserStream struct {
	doer client.Doer
}

// Start creates a listen key, or returns the active one.
func (u *UserStream) Start(ctx context.Context) (string, error) {
	req := core.NewRequest(http.MethodPost, PathListenKey).
		SetSecurity(core.SecurityAPIKey)
	key, err := client.Send[ListenKey](ctx, u.doer, req)
	if err != nil {
		return "", err
	}
	return key.ListenKey, nil
}

// KeepAlive extends the validity of listenKey by 60 minutes.
func (u *UserStream) KeepAlive(ctx context.Context, listenKey string) error {
	req := core.NewRequest(http.MethodPut, PathListenKey).
		SetQuery("listenKey", listenKey).
		SetSecurity(core.SecurityAPIKey)
	_, err := client.Send[client.Empty](ctx, u.doer, req)
	return err
}

// Close invalidates listenKey.
func (u *UserStream) Close(ctx context.Context, listenKey string) error {
	req := core.NewRequest(http.MethodDelete, PathListenKey).
		SetQuery("listenKey", listenKey).
		SetSecurity(core.SecurityAPIKey)
	_, err := client.Send[client.Empty](ctx, u.doer, req)
	return err
}
