// Package realtime maintains the push channel from the exercise backend:
// one WebSocket per role, decoded at the boundary into typed events and
// folded into the situation store. Delivery can interleave arbitrarily with
// poll responses; the store's merge absorbs the races.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/situation"
)

// Config holds connection settings for the upstream event stream.
type Config struct {
	URL              string // ws:// or wss:// endpoint
	Role             models.Role
	SessionID        string
	Token            string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	ReconnectWait    time.Duration
	MaxReconnectWait time.Duration
}

// DefaultConfig returns default connection settings.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		ReadTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		ReconnectWait:    2 * time.Second,
		MaxReconnectWait: 30 * time.Second,
	}
}

// Client is the upstream WebSocket consumer.
type Client struct {
	config    Config
	store     *situation.Store
	wall      clockwork.Clock
	dialer    *websocket.Dialer
	onConnect func()
}

// OnConnect registers a hook invoked after every successful dial,
// including reconnects. Must be set before Run.
func (c *Client) OnConnect(fn func()) {
	c.onConnect = fn
}

// NewClient returns a client feeding the given store.
func NewClient(config Config, store *situation.Store, wall clockwork.Clock) *Client {
	return &Client{
		config: config,
		store:  store,
		wall:   wall,
		dialer: &websocket.Dialer{HandshakeTimeout: config.HandshakeTimeout},
	}
}

// Run connects and consumes until ctx is cancelled, reconnecting with
// capped backoff after any transport failure. Reconnection is transport
// recovery only; no application operation is ever retried here.
func (c *Client) Run(ctx context.Context) error {
	wait := c.config.ReconnectWait
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error().Err(err).
			Str("role", c.config.Role.Room()).
			Dur("retry_in", wait).
			Msg("event stream disconnected")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wall.After(wait):
		}
		wait *= 2
		if wait > c.config.MaxReconnectWait {
			wait = c.config.MaxReconnectWait
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().
		Str("role", c.config.Role.Room()).
		Str("url", c.config.URL).
		Msg("event stream connected")

	if c.onConnect != nil {
		c.onConnect()
	}

	conn.SetReadDeadline(c.wall.Now().Add(c.config.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(c.wall.Now().Add(c.config.ReadTimeout))
		return nil
	})

	// Ping loop; exits with the connection.
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go c.pingLoop(pingCtx, conn)

	// Reader loop. Closing the connection on ctx cancellation unblocks
	// ReadMessage, so unmount-style teardown never leaks this goroutine.
	go func() {
		<-pingCtx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event stream: %w", err)
		}
		conn.SetReadDeadline(c.wall.Now().Add(c.config.ReadTimeout))
		c.handleMessage(data)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse stream url: %w", err)
	}
	q := u.Query()
	q.Set("role", c.config.Role.Room())
	if c.config.SessionID != "" {
		q.Set("session_id", c.config.SessionID)
	}
	if c.config.Token != "" {
		q.Set("token", c.config.Token)
	}
	u.RawQuery = q.Encode()

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial event stream: %w", err)
	}
	return conn, nil
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := c.wall.NewTicker(c.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			deadline := c.wall.Now().Add(c.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes one frame and applies it to the store. Replayed
// snapshot events pass through the same id-dedup as live pushes, so a
// resync after reconnect is idempotent.
func (c *Client) handleMessage(data []byte) {
	frame, err := events.DecodeFrame(data)
	if err != nil {
		log.Warn().Err(err).Msg("dropping undecodable frame")
		return
	}

	switch frame.Type {
	case events.FrameGameEvent:
		if frame.Event == nil {
			return
		}
		if c.store.AddEvent(*frame.Event) {
			log.Debug().
				Str("event_id", frame.Event.ID).
				Str("kind", string(frame.Event.Kind)).
				Msg("event ingested")
		}

	case events.FrameSnapshotState:
		if len(frame.GameState) > 0 {
			var state models.GameState
			if err := json.Unmarshal(frame.GameState, &state); err != nil {
				log.Warn().Err(err).Msg("dropping undecodable snapshot state")
			} else {
				c.store.SetGameState(&state)
			}
		}
		for _, ev := range frame.Events {
			c.store.AddEvent(ev)
		}
		log.Info().
			Int("events", len(frame.Events)).
			Msg("snapshot resync applied")

	default:
		log.Debug().Str("type", frame.Type).Msg("ignoring unknown frame type")
	}
}
