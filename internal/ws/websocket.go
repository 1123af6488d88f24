package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
)

// ErrClosed is reported by Err after Close ends the session.
var ErrClosed = errors.New("websocket closed")

// Config holds configuration options for a websocket client.
type Config struct {
	// URL is the websocket server endpoint to connect to.
	URL string
	// Header is sent with the handshake request.
	Header http.Header
	// PingInterval is the duration between ping frames sent to keep the connection alive.
	PingInterval time.Duration
	// PongWait is how long past PingInterval the connection may stay silent before it is dropped.
	PongWait time.Duration
	// BufferSize is the capacity of the message channel.
	BufferSize int
	Logger     zerolog.Logger
}

// Client reads text frames from one websocket session. A Client is not reused: once the
// session ends, Done is closed and Err reports why.
type Client struct {
	config  Config
	state   *State
	handler *eventHandler
	logger  zerolog.Logger

	mu        sync.RWMutex
	conn      *gws.Conn
	err       error
	messages  chan []byte
	connected chan struct{}
	done      chan struct{}
	finish    sync.Once
	wg        sync.WaitGroup
}

type eventHandler struct {
	client *Client
}

// NewClient creates a websocket client with the given configuration.
// Default values are applied for any zero-valued configuration fields.
func NewClient(config Config) *Client {
	if config.PingInterval == 0 {
		config.PingInterval = 30 * time.Second
	}
	if config.PongWait == 0 {
		config.PongWait = 60 * time.Second
	}
	if config.BufferSize == 0 {
		config.BufferSize = 100
	}

	client := &Client{
		config:    config,
		state:     &State{},
		logger:    config.Logger,
		messages:  make(chan []byte, config.BufferSize),
		connected: make(chan struct{}),
		done:      make(chan struct{}),
	}
	client.state.Store(StateDisconnected)
	client.handler = &eventHandler{client: client}
	return client
}

func (h *eventHandler) OnOpen(socket *gws.Conn) {
	h.client.state.CompareAndSwap(StateConnecting, StateConnected)
	close(h.client.connected)

	h.client.logger.Info().Msg("websocket connected")

	_ = socket.SetDeadline(time.Now().Add(h.client.config.PingInterval + h.client.config.PongWait))
}

func (h *eventHandler) OnClose(socket *gws.Conn, err error) {
	h.client.logger.Warn().Err(err).Msg("websocket disconnected")
	h.client.end(err)
}

func (h *eventHandler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.client.config.PingInterval + h.client.config.PongWait))
	_ = socket.WritePong(payload)
}

func (h *eventHandler) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.client.config.PingInterval + h.client.config.PongWait))
}

func (h *eventHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	_ = socket.SetDeadline(time.Now().Add(h.client.config.PingInterval + h.client.config.PongWait))

	if message.Opcode != gws.OpcodeText || message.Data.Len() == 0 {
		return
	}

	// The message buffer is pooled and reused after Close.
	data := make([]byte, message.Data.Len())
	copy(data, message.Bytes())

	select {
	case h.client.messages <- data:
	case <-h.client.done:
	}
}

// Connect dials the configured URL and starts the read loop.
// It returns an error if the handshake fails or the client was already used.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(StateDisconnected, StateConnecting) {
		return fmt.Errorf("invalid state for connect: %s", c.state.Load())
	}

	option := &gws.ClientOption{
		Addr:          c.config.URL,
		RequestHeader: c.config.Header,
	}
	if deadline, ok := ctx.Deadline(); ok {
		option.HandshakeTimeout = time.Until(deadline)
	}
	dialer := &contextDialer{ctx: ctx}
	option.NewDialer = func() (gws.Dialer, error) { return dialer, nil }

	socket, _, err := gws.NewClient(c.handler, option)
	dialer.release()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		c.end(err)
		return fmt.Errorf("connect websocket: %w", err)
	}

	c.mu.Lock()
	c.conn = socket
	c.mu.Unlock()

	c.wg.Go(func() {
		socket.ReadLoop()
	})

	select {
	case <-c.connected:
	case <-ctx.Done():
		_ = socket.NetConn().Close()
		c.wg.Wait()
		return ctx.Err()
	case <-c.done:
		return c.Err()
	}

	c.wg.Go(c.keepAlive)
	return nil
}

// contextDialer dials with ctx and closes the connection if ctx ends before release,
// which aborts a handshake stuck on a silent server.
type contextDialer struct {
	ctx  context.Context
	stop func() bool
}

func (d *contextDialer) Dial(network, addr string) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(d.ctx, network, addr)
	if err != nil {
		return nil, err
	}
	d.stop = context.AfterFunc(d.ctx, func() { _ = conn.Close() })
	return conn, nil
}

func (d *contextDialer) release() {
	if d.stop != nil {
		d.stop()
	}
}

func (c *Client) keepAlive() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.SendPing(); err != nil {
				c.logger.Debug().Err(err).Msg("ping failed")
			}
		case <-c.done:
			return
		}
	}
}

// end records the first error and releases readers. It runs once per client.
func (c *Client) end(err error) {
	c.finish.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()

		c.state.Store(StateClosed)
		close(c.done)
	})
}

// Close ends the session and waits for the read loop to exit.
func (c *Client) Close() error {
	c.end(ErrClosed)

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn != nil {
		_ = conn.WriteClose(1000, nil)
		_ = conn.NetConn().Close()
	}
	c.wg.Wait()
	return nil
}

// Messages returns the channel of received text frames. The channel is never closed;
// readers select on Done as well and may drain buffered frames after it fires.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// Done is closed when the session ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns why the session ended, or nil while it is running.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// State returns the current connection state of the websocket.
func (c *Client) State() ConnState {
	return c.state.Load()
}

// IsConnected returns true if the websocket has an active connection.
func (c *Client) IsConnected() bool {
	return c.state.Load() == StateConnected
}

// SendPing sends a ping frame to the server to keep the connection alive.
// It returns an error if the connection is not active.
func (c *Client) SendPing() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || c.state.Load() != StateConnected {
		return fmt.Errorf("websocket not connected")
	}

	return c.conn.WritePing(nil)
}
