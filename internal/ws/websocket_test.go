package ws

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushHandler struct {
	gws.BuiltinEventHandler
	frames    []string
	hangUp    bool
	gotHeader chan string
}

func (h *pushHandler) OnOpen(socket *gws.Conn) {
	for _, f := range h.frames {
		_ = socket.WriteMessage(gws.OpcodeText, []byte(f))
	}
	if h.hangUp {
		_ = socket.WriteClose(1000, nil)
	}
}

func newPushServer(t *testing.T, h *pushHandler) string {
	t.Helper()
	upgrader := gws.NewUpgrader(h, &gws.ServerOption{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.gotHeader != nil {
			h.gotHeader <- r.Header.Get("X-Test")
		}
		socket, err := upgrader.Upgrade(w, r)
		if err != nil {
			return
		}
		go socket.ReadLoop()
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case data := <-c.Messages():
		return string(data)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return ""
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{URL: "wss://example.com/ws/key"})

	assert.Equal(t, StateDisconnected, c.State())
	assert.False(t, c.IsConnected())
	assert.Equal(t, 30*time.Second, c.config.PingInterval)
	assert.Equal(t, 60*time.Second, c.config.PongWait)
	assert.Equal(t, 100, cap(c.messages))
	assert.NoError(t, c.Err())
}

func TestClient_ReceivesFramesInOrder(t *testing.T) {
	url := newPushServer(t, &pushHandler{frames: []string{`{"e":"a"}`, `{"e":"b"}`, `{"e":"c"}`}})

	c := NewClient(Config{URL: url, Logger: zerolog.Nop()})
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	assert.True(t, c.IsConnected())
	assert.Equal(t, `{"e":"a"}`, receive(t, c))
	assert.Equal(t, `{"e":"b"}`, receive(t, c))
	assert.Equal(t, `{"e":"c"}`, receive(t, c))
}

func TestClient_SendsHandshakeHeader(t *testing.T) {
	h := &pushHandler{gotHeader: make(chan string, 1)}
	url := newPushServer(t, h)

	header := http.Header{}
	header.Set("X-Test", "yes")
	c := NewClient(Config{URL: url, Header: header, Logger: zerolog.Nop()})
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	assert.Equal(t, "yes", <-h.gotHeader)
}

func TestClient_Close(t *testing.T) {
	url := newPushServer(t, &pushHandler{})

	c := NewClient(Config{URL: url, Logger: zerolog.Nop()})
	require.NoError(t, c.Connect(context.Background()))

	require.NoError(t, c.Close())

	select {
	case <-c.Done():
	default:
		t.Fatal("done not closed")
	}
	assert.ErrorIs(t, c.Err(), ErrClosed)
	assert.Equal(t, StateClosed, c.State())
	assert.Error(t, c.SendPing())

	// a second close is a no-op
	assert.NoError(t, c.Close())
}

func TestClient_PeerClose(t *testing.T) {
	url := newPushServer(t, &pushHandler{frames: []string{`{"e":"last"}`}, hangUp: true})

	c := NewClient(Config{URL: url, Logger: zerolog.Nop()})
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end")
	}
	assert.Error(t, c.Err())
	assert.NotErrorIs(t, c.Err(), ErrClosed)
	assert.Equal(t, `{"e":"last"}`, receive(t, c))
}

func TestClient_ConnectOnce(t *testing.T) {
	url := newPushServer(t, &pushHandler{})

	c := NewClient(Config{URL: url, Logger: zerolog.Nop()})
	require.NoError(t, c.Connect(context.Background()))
	defer c.Close()

	assert.Error(t, c.Connect(context.Background()))
}

func TestClient_ConnectFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	server.Close()

	c := NewClient(Config{URL: url, Logger: zerolog.Nop()})
	err := c.Connect(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateClosed, c.State())
	assert.Error(t, c.Err())
	assert.NoError(t, c.Close())
}

func TestClient_ConnectDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// accept and never answer the handshake
	held := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			held <- conn
		}
	}()
	defer func() {
		select {
		case conn := <-held:
			_ = conn.Close()
		default:
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c := NewClient(Config{URL: "ws://" + ln.Addr().String(), Logger: zerolog.Nop()})
	start := time.Now()
	err = c.Connect(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, StateClosed, c.State())
}

func TestClient_ConnectCanceled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(3 * time.Second)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	c := NewClient(Config{URL: "ws://" + ln.Addr().String(), Logger: zerolog.Nop()})
	start := time.Now()
	err = c.Connect(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConnState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "unknown", ConnState(9).String())
}
