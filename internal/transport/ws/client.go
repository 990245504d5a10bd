// Package ws provides a venue-agnostic WebSocket client used by every
// exchange driver. It owns the gws connection and ping/pong keepalive;
// framing, subscription wire-format and reconnection policy live one
// layer up in internal/parser and internal/reconnect.
package ws

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lxzan/gws"
	"github.com/rs/zerolog/log"
)

// Config holds per-connection WebSocket settings.
type Config struct {
	URL          string
	PingInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.PingInterval == 0 {
		c.PingInterval = 20 * time.Second
	}
	return c
}

// Handlers are the callbacks a Client invokes from its read loop.
// OnMessage receives the raw frame payload; the caller owns decoding.
// None of these may block for long: they run inline on the I/O goroutine.
type Handlers struct {
	OnMessage func(data []byte)
	OnOpen    func()
	OnClose   func(err error)
}

// Client is a single venue connection: one gws.Conn, one read loop,
// one ping ticker. A reconnect.Supervisor owns the retry loop around it.
type Client struct {
	cfg      Config
	handlers Handlers

	mu         sync.RWMutex
	conn       *gws.Conn
	connected  atomic.Bool
	pingTicker *time.Ticker
	pingDone   chan struct{}
}

// New creates a Client. Connect must be called before use.
func New(cfg Config, handlers Handlers) *Client {
	return &Client{cfg: cfg.withDefaults(), handlers: handlers}
}

// Connect dials the venue endpoint and starts the read and ping loops.
// It blocks until the handshake completes or fails.
func (c *Client) Connect(ctx context.Context) error {
	option := &gws.ClientOption{
		Addr:      c.cfg.URL,
		TlsConfig: &tls.Config{InsecureSkipVerify: false},
	}

	conn, _, err := gws.NewClient(c, option)
	if err != nil {
		return fmt.Errorf("ws: dial %s: %w", c.cfg.URL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.connected.Store(true)

	go conn.ReadLoop()
	c.startPing()

	return nil
}

// Send writes a text frame, used for venue subscribe/unsubscribe control
// messages (OKX and Bybit add streams on a live connection; Binance does
// not, so its driver never calls this).
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("ws: not connected")
	}
	return conn.WriteString(string(data))
}

// Close terminates the connection and stops the keepalive ticker.
func (c *Client) Close() error {
	c.stopPing()

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.connected.Store(false)
	if conn != nil {
		return conn.WriteClose(1000, nil)
	}
	return nil
}

// Connected reports whether the read loop is currently active.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

func (c *Client) startPing() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pingTicker = time.NewTicker(c.cfg.PingInterval)
	c.pingDone = make(chan struct{})
	ticker := c.pingTicker
	done := c.pingDone

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.mu.RLock()
				conn := c.conn
				c.mu.RUnlock()
				if conn != nil {
					conn.WritePing(nil)
				}
			}
		}
	}()
}

func (c *Client) stopPing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pingTicker != nil {
		c.pingTicker.Stop()
		c.pingTicker = nil
	}
	if c.pingDone != nil {
		close(c.pingDone)
		c.pingDone = nil
	}
}

// --- gws.EventHandler ---

func (c *Client) OnOpen(socket *gws.Conn) {
	socket.SetDeadline(time.Now().Add(c.cfg.PingInterval * 2))
	if c.handlers.OnOpen != nil {
		c.safe(c.handlers.OnOpen)
	}
}

func (c *Client) OnClose(socket *gws.Conn, err error) {
	c.connected.Store(false)
	c.stopPing()
	if c.handlers.OnClose != nil {
		c.safe(func() { c.handlers.OnClose(err) })
	}
}

func (c *Client) OnPing(socket *gws.Conn, payload []byte) {
	socket.SetDeadline(time.Now().Add(c.cfg.PingInterval * 2))
	socket.WritePong(payload)
}

func (c *Client) OnPong(socket *gws.Conn, payload []byte) {
	socket.SetDeadline(time.Now().Add(c.cfg.PingInterval * 2))
}

func (c *Client) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()
	socket.SetDeadline(time.Now().Add(c.cfg.PingInterval * 2))

	data := message.Bytes()
	if len(data) == 0 || c.handlers.OnMessage == nil {
		return
	}
	c.safe(func() { c.handlers.OnMessage(data) })
}

// safe runs a callback with panic recovery so a misbehaving handler never
// takes down the venue's I/O goroutine.
func (c *Client) safe(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("ws handler panic recovered")
		}
	}()
	fn()
}
