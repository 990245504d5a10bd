// Package connector provides the public API for exchange connectivity:
// one Connector per venue, composing the transport, reconnect, and
// parser layers behind typed Subscribe/Handlers calls.
package connector

import (
	"context"
	"fmt"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sydowma/mdgateway/internal/circuit"
	"github.com/sydowma/mdgateway/internal/driver/binance"
	"github.com/sydowma/mdgateway/internal/driver/bybit"
	"github.com/sydowma/mdgateway/internal/driver/okx"
	"github.com/sydowma/mdgateway/internal/metrics"
	"github.com/sydowma/mdgateway/internal/parser"
	"github.com/sydowma/mdgateway/internal/reconnect"
	internalsync "github.com/sydowma/mdgateway/internal/sync"
	"github.com/sydowma/mdgateway/internal/transport/ws"
	"github.com/sydowma/mdgateway/pkg/domain"
)

// Connector provides exchange connectivity with fault tolerance.
// One Connector instance connects to one exchange.
type Connector struct {
	config Config
	venue  domain.Venue

	// Components
	restClient     *binance.RESTClient // only populated for VenueBinance
	circuitBreaker *circuit.Breaker
	clockSync      *internalsync.ClockSync
	supervisor     *reconnect.Supervisor
	metricsReg     *metrics.Registry

	subsMu stdsync.RWMutex
	subs   []subscription

	transportMu    stdsync.RWMutex
	transport      *ws.Client
	disconnectedCh chan struct{}

	// State
	running   atomic.Bool
	ready     chan struct{}
	readyOnce stdsync.Once

	// Handlers
	handlers Handlers

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     stdsync.WaitGroup
}

// New creates a new Connector for an exchange.
func New(cfg Config) (*Connector, error) {
	if err := cfg.Exchange.Validate(); err != nil {
		return nil, err
	}
	venue, ok := domain.ParseVenue(cfg.Exchange.Name)
	if !ok {
		return nil, fmt.Errorf("connector: unknown venue %q", cfg.Exchange.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Connector{
		config: cfg,
		venue:  venue,
		ready:  make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}

	if err := c.initComponents(); err != nil {
		cancel()
		return nil, err
	}

	return c, nil
}

// initComponents initializes all components.
func (c *Connector) initComponents() error {
	rcfg := reconnect.DefaultConfig()
	if c.config.Connection.ReconnectDelay > 0 {
		rcfg.Base = c.config.Connection.ReconnectDelay
	}
	if c.config.Connection.MaxReconnectWait > 0 {
		rcfg.Cap = c.config.Connection.MaxReconnectWait
	}
	c.supervisor = reconnect.New(c.venue.String(), rcfg)

	if c.config.Metrics.Enabled {
		c.metricsReg = metrics.New()
	}

	if c.config.CircuitBreaker.Enabled {
		c.circuitBreaker = circuit.NewBreaker(c.venue.String(), circuit.Config{
			MaxFailures:      c.config.CircuitBreaker.MaxFailures,
			SuccessThreshold: c.config.CircuitBreaker.SuccessThreshold,
			OpenTimeout:      c.config.CircuitBreaker.OpenTimeout,
		})
	}

	// Binance is the only venue with a REST surface in this gateway; OKX
	// and Bybit are websocket-only market-data sources here.
	if c.venue == domain.VenueBinance {
		restCfg := binance.Config{
			Timeout:   c.config.Connection.Timeout,
			MaxWeight: c.config.RateLimit.MaxWeight,
			Testnet:   c.config.Exchange.Testnet,
		}
		rc, err := binance.NewRESTClient(restCfg)
		if err != nil {
			return fmt.Errorf("failed to create REST client: %w", err)
		}
		c.restClient = rc

		if c.config.ClockSync.Enabled {
			c.clockSync = internalsync.NewClockSync(c.venue.String(), internalsync.ClockConfig{
				MaxOffset:    c.config.ClockSync.MaxOffset,
				SyncInterval: c.config.ClockSync.SyncInterval,
				TimeProvider: c.restClient.GetServerTime,
			})
		}
	}

	return nil
}

// Start starts the connector. It returns immediately; use Ready() to wait
// for the first successful connection.
func (c *Connector) Start() error {
	if c.running.Swap(true) {
		return fmt.Errorf("connector already running")
	}

	log.Info().Str("venue", c.venue.String()).Msg("starting connector")
	c.supervisor.Start()

	if c.clockSync != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.clockSync.Start(); err != nil {
				log.Error().Err(err).Msg("clock sync failed")
				c.notifyError(err)
			}
		}()
	}

	c.wg.Add(1)
	go c.runConnectionLoop()

	return nil
}

// runConnectionLoop drives the initial connect and every subsequent
// reconnect through the supervisor until Stop is called.
func (c *Connector) runConnectionLoop() {
	defer c.wg.Done()

	needsReconnect := false
	if err := c.connect(c.ctx); err != nil {
		log.Error().Err(err).Str("venue", c.venue.String()).Msg("initial connect failed")
		c.notifyError(err)
		needsReconnect = true
	} else {
		c.markReady()
	}

	for {
		if needsReconnect {
			if err := c.supervisor.ScheduleReconnect(c.ctx, c.connect); err != nil {
				log.Error().Err(err).Str("venue", c.venue.String()).Msg("reconnect abandoned")
				c.notifyError(err)
				if c.supervisor.State() == reconnect.StateTerminated || c.ctx.Err() != nil {
					return
				}
				continue
			}
			c.markReady()
			needsReconnect = false
		}

		select {
		case <-c.ctx.Done():
			return
		case <-c.disconnected():
			needsReconnect = true
		}
	}
}

// disconnectedCh is replaced on every connect attempt and closed by
// onDisconnect, waking runConnectionLoop's select.
func (c *Connector) disconnected() <-chan struct{} {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()
	return c.disconnectedCh
}

// connect dials the venue, wires the read-loop handlers and, for venues
// that add streams on a live connection (OKX, Bybit), sends the current
// subscription set once the handshake completes.
func (c *Connector) connect(ctx context.Context) error {
	url, err := c.connectURL()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	handlers := ws.Handlers{
		OnMessage: c.onMessage,
		OnOpen: func() {
			if c.metricsReg != nil {
				c.metricsReg.SetConnected(c.venue, true)
			}
			if c.handlers.OnConnect != nil {
				c.safeHandler(func() { c.handlers.OnConnect(c.venue.String(), true) })
			}
		},
		OnClose: func(err error) {
			if c.metricsReg != nil {
				c.metricsReg.SetConnected(c.venue, false)
			}
			if c.handlers.OnDisconnect != nil {
				c.safeHandler(func() { c.handlers.OnDisconnect(c.venue.String(), false) })
			}
			close(done)
		},
	}

	client := ws.New(ws.Config{URL: url, PingInterval: c.config.Connection.PingInterval}, handlers)
	if err := client.Connect(ctx); err != nil {
		return err
	}

	c.transportMu.Lock()
	c.transport = client
	c.disconnectedCh = done
	c.transportMu.Unlock()

	if c.venue == domain.VenueOKX || c.venue == domain.VenueBybit {
		if err := c.sendSubscriptions(client); err != nil {
			return err
		}
	}

	return nil
}

// connectURL builds the dial target for the venue. Binance bakes every
// stream into the combined-stream URL because it has no live subscribe
// message; OKX and Bybit connect to a fixed public endpoint and subscribe
// afterwards.
func (c *Connector) connectURL() (string, error) {
	switch c.venue {
	case domain.VenueBinance:
		streams := c.binanceStreams()
		if len(streams) == 0 {
			if c.config.Exchange.Testnet {
				return binance.TestnetWebSocketURL, nil
			}
			return binance.BaseWebSocketURL, nil
		}
		base := binance.BaseWebSocketCombinedURL
		if c.config.Exchange.Testnet {
			base = binance.TestnetWebSocketCombinedURL
		}
		return base + "?streams=" + binance.CombineStreams(streams), nil
	case domain.VenueOKX:
		return okx.BaseWebSocketURL, nil
	case domain.VenueBybit:
		return bybit.BaseWebSocketURL, nil
	default:
		return "", fmt.Errorf("connector: no URL builder for venue %s", c.venue)
	}
}

func (c *Connector) binanceStreams() []string {
	conv := domain.SymbolConvert{Venue: domain.VenueBinance}
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()

	streams := make([]string, 0, len(c.subs))
	for _, s := range c.subs {
		sb := binance.NewStreamBuilder(conv.ToVenue(s.symbol))
		switch s.channel {
		case ChannelTicker:
			streams = append(streams, sb.Ticker())
		case ChannelTrade:
			streams = append(streams, sb.Trade())
		case ChannelOrderBook:
			streams = append(streams, sb.Depth())
		}
	}
	return streams
}

func (c *Connector) sendSubscriptions(client *ws.Client) error {
	conv := domain.SymbolConvert{Venue: c.venue}
	c.subsMu.RLock()
	subs := append([]subscription(nil), c.subs...)
	c.subsMu.RUnlock()

	for _, s := range subs {
		venueSymbol := conv.ToVenue(s.symbol)
		var (
			msg []byte
			err error
		)
		switch c.venue {
		case domain.VenueOKX:
			msg, err = okx.BuildSubscribe(okxChannel(s.channel), venueSymbol)
		case domain.VenueBybit:
			msg, err = bybit.BuildSubscribe(bybitTopic(s.channel, venueSymbol))
		}
		if err != nil {
			return err
		}
		if msg != nil {
			if err := client.Send(msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func okxChannel(ch Channel) string {
	switch ch {
	case ChannelTicker:
		return okx.ChannelTickers
	case ChannelTrade:
		return okx.ChannelTrades
	default:
		return okx.ChannelBooks
	}
}

func bybitTopic(ch Channel, venueSymbol string) string {
	switch ch {
	case ChannelTicker:
		return bybit.TickerTopic(venueSymbol)
	case ChannelTrade:
		return bybit.TradeTopic(venueSymbol)
	default:
		return bybit.BookTopic(venueSymbol, 50)
	}
}

// onMessage classifies and parses an inbound frame, then dispatches to
// the typed handler (native format) or OnEncoded (JSON/binary format).
func (c *Connector) onMessage(data []byte) {
	result, err := parser.Parse(data, c.venue, c.config.OutputFormat)
	if c.metricsReg != nil {
		c.metricsReg.ObserveReceived(c.venue, result.DataType)
		c.metricsReg.ObserveParseLatency(c.venue, result.DataType, result.ElapsedNanos)
	}
	if err != nil {
		if c.metricsReg != nil {
			c.metricsReg.ObserveParseError(c.venue)
		}
		log.Warn().Err(err).Str("venue", c.venue.String()).Str("frame", frameExcerpt(data)).Msg("dropping malformed frame")
		return
	}
	if result.DataType == domain.DataTypeUnknown {
		return
	}
	if c.metricsReg != nil {
		c.metricsReg.ObservePublished(c.venue, result.DataType)
	}

	if c.config.OutputFormat != 0 { // FormatNative == 0
		if c.handlers.OnEncoded != nil {
			payload, _ := result.Payload.([]byte)
			c.safeHandler(func() { c.handlers.OnEncoded(c.venue.String(), result.DataType, payload) })
		}
		return
	}

	switch result.DataType {
	case domain.DataTypeTicker:
		if t, ok := result.Payload.(*domain.Ticker); ok && c.handlers.OnTicker != nil {
			c.safeHandler(func() { c.handlers.OnTicker(c.venue.String(), t) })
		}
	case domain.DataTypeTrade:
		if t, ok := result.Payload.(*domain.Trade); ok && c.handlers.OnTrade != nil {
			c.safeHandler(func() { c.handlers.OnTrade(c.venue.String(), t) })
		}
	case domain.DataTypeOrderBook:
		if ob, ok := result.Payload.(*domain.OrderBook); ok && c.handlers.OnOrderBook != nil {
			c.safeHandler(func() { c.handlers.OnOrderBook(c.venue.String(), ob) })
		}
	}
}

// frameExcerpt truncates a raw frame for safe inclusion in a log line,
// since a full frame can be kilobytes and the content itself may not be
// valid UTF-8.
func frameExcerpt(data []byte) string {
	const maxLen = 256
	if len(data) > maxLen {
		data = data[:maxLen]
	}
	return string(data)
}

func (c *Connector) notifyError(err error) {
	if c.handlers.OnError != nil {
		c.safeHandler(func() { c.handlers.OnError(c.venue.String(), err) })
	}
}

// Stop stops the connector gracefully.
func (c *Connector) Stop() error {
	if !c.running.Swap(false) {
		return nil
	}

	log.Info().Str("venue", c.venue.String()).Msg("stopping connector")
	c.supervisor.Stop()
	c.cancel()

	if c.clockSync != nil {
		c.clockSync.Stop()
	}

	c.transportMu.RLock()
	transport := c.transport
	c.transportMu.RUnlock()
	if transport != nil {
		transport.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Warn().Msg("timeout waiting for goroutines to stop")
	}

	if c.restClient != nil {
		c.restClient.Close()
	}

	log.Info().Str("venue", c.venue.String()).Msg("connector stopped")
	return nil
}

// Ready returns a channel that is closed when the connector first connects.
func (c *Connector) Ready() <-chan struct{} {
	return c.ready
}

func (c *Connector) markReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// IsRunning returns true if the connector is running.
func (c *Connector) IsRunning() bool {
	return c.running.Load()
}

// IsConnected returns true if the transport is currently connected.
func (c *Connector) IsConnected() bool {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()
	return c.transport != nil && c.transport.Connected()
}

// Venue returns the venue name.
func (c *Connector) Venue() string {
	return c.venue.String()
}

// SetHandlers sets event handlers. Must be called before Start.
func (c *Connector) SetHandlers(handlers Handlers) {
	c.handlers = handlers
}

// subscribe registers a (channel, symbol) pair and, if already connected,
// applies it immediately: OKX/Bybit send a live subscribe message;
// Binance has no live-add, so it reconnects with the new combined URL.
func (c *Connector) subscribe(ch Channel, symbol string) (func(), error) {
	if !c.running.Load() {
		return nil, fmt.Errorf("connector not running")
	}

	s := subscription{channel: ch, symbol: symbol}
	c.subsMu.Lock()
	c.subs = append(c.subs, s)
	c.subsMu.Unlock()

	if err := c.applySubscriptionChange(); err != nil {
		return nil, err
	}

	return func() { c.unsubscribe(s) }, nil
}

func (c *Connector) unsubscribe(s subscription) {
	c.subsMu.Lock()
	for i, existing := range c.subs {
		if existing == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.subsMu.Unlock()

	_ = c.applySubscriptionChange()
}

func (c *Connector) applySubscriptionChange() error {
	c.transportMu.RLock()
	transport := c.transport
	c.transportMu.RUnlock()

	switch c.venue {
	case domain.VenueBinance:
		// No live subscribe message: force a reconnect onto the new
		// combined-stream URL.
		if transport != nil {
			transport.Close()
		}
		return c.connect(c.ctx)
	case domain.VenueOKX, domain.VenueBybit:
		if transport == nil {
			return nil // applied on the next connect
		}
		return c.sendSubscriptions(transport)
	default:
		return nil
	}
}

// SubscribeTicker subscribes to ticker updates for a canonical symbol.
func (c *Connector) SubscribeTicker(symbol string) (func(), error) {
	return c.subscribe(ChannelTicker, symbol)
}

// SubscribeOrderBook subscribes to order book updates for a canonical symbol.
func (c *Connector) SubscribeOrderBook(symbol string) (func(), error) {
	return c.subscribe(ChannelOrderBook, symbol)
}

// SubscribeTrades subscribes to trade updates for a canonical symbol.
func (c *Connector) SubscribeTrades(symbol string) (func(), error) {
	return c.subscribe(ChannelTrade, symbol)
}

// Ping tests REST connectivity. Only meaningful for VenueBinance.
func (c *Connector) Ping(ctx context.Context) error {
	if c.restClient == nil {
		return fmt.Errorf("connector: %s has no REST surface", c.venue)
	}
	if c.circuitBreaker != nil {
		return c.circuitBreaker.Execute(func() error { return c.restClient.Ping(ctx) })
	}
	return c.restClient.Ping(ctx)
}

// GetServerTime retrieves the exchange server time. Only meaningful for
// VenueBinance.
func (c *Connector) GetServerTime(ctx context.Context) (int64, error) {
	if c.restClient == nil {
		return 0, fmt.Errorf("connector: %s has no REST surface", c.venue)
	}
	if c.circuitBreaker != nil {
		result, err := c.circuitBreaker.ExecuteWithResult(func() (any, error) {
			return c.restClient.GetServerTime(ctx)
		})
		if err != nil {
			return 0, err
		}
		return result.(int64), nil
	}
	return c.restClient.GetServerTime(ctx)
}

// GetExchangeInfo retrieves exchange trading rules. Only meaningful for
// VenueBinance.
func (c *Connector) GetExchangeInfo(ctx context.Context) (*binance.ExchangeInfo, error) {
	if c.restClient == nil {
		return nil, fmt.Errorf("connector: %s has no REST surface", c.venue)
	}
	if c.circuitBreaker != nil {
		result, err := c.circuitBreaker.ExecuteWithResult(func() (any, error) {
			return c.restClient.GetExchangeInfo(ctx)
		})
		if err != nil {
			return nil, err
		}
		return result.(*binance.ExchangeInfo), nil
	}
	return c.restClient.GetExchangeInfo(ctx)
}

// CircuitBreakerStats returns circuit breaker statistics.
func (c *Connector) CircuitBreakerStats() (circuit.Stats, error) {
	if c.circuitBreaker == nil {
		return circuit.Stats{}, fmt.Errorf("circuit breaker not enabled")
	}
	return c.circuitBreaker.Stats(), nil
}

// ClockOffset returns the current clock offset. Zero if clock sync is
// disabled or the venue has no REST time source.
func (c *Connector) ClockOffset() time.Duration {
	if c.clockSync == nil {
		return 0
	}
	return c.clockSync.Offset()
}

// safeHandler executes a handler with panic recovery.
func (c *Connector) safeHandler(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("venue", c.venue.String()).Msg("handler panic recovered")
		}
	}()
	fn()
}
