package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/StrathCole/btc-cache/pkg/session"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultCloseGrace       = 5 * time.Second
	defaultWriteWait        = 10 * time.Second
	defaultPingInterval     = 30 * time.Second
	frameBuffer             = 256
)

// Config holds WebSocket dialer configuration
type Config struct {
	HandshakeTimeout time.Duration
	CloseGrace       time.Duration // Upper bound on the close handshake when ctx has no deadline
	WriteWait        time.Duration
	PingInterval     time.Duration
	Headers          http.Header // Custom headers for WebSocket handshake
	Logger           zerolog.Logger
}

// Dialer opens feed connections. It satisfies session.Dialer.
type Dialer struct {
	cfg Config
}

var _ session.Dialer = (*Dialer)(nil)

// NewDialer creates a new dialer, filling unset timings with defaults.
func NewDialer(cfg Config) *Dialer {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.CloseGrace == 0 {
		cfg.CloseGrace = defaultCloseGrace
	}
	if cfg.WriteWait == 0 {
		cfg.WriteWait = defaultWriteWait
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = defaultPingInterval
	}
	return &Dialer{cfg: cfg}
}

// Dial establishes the WebSocket connection and starts its read loop.
func (d *Dialer) Dial(ctx context.Context, url string) (session.Conn, error) {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = d.cfg.HandshakeTimeout

	ws, _, err := dialer.DialContext(ctx, url, d.cfg.Headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDial, url, err)
	}

	c := &Conn{
		url:        url,
		ws:         ws,
		frames:     make(chan string, frameBuffer),
		done:       make(chan struct{}),
		readDone:   make(chan struct{}),
		closeGrace: d.cfg.CloseGrace,
		writeWait:  d.cfg.WriteWait,
		logger:     d.cfg.Logger.With().Str("url", url).Logger(),
	}

	c.logger.Debug().Msg("WebSocket connected")

	go c.readPump()
	go c.pingPump(d.cfg.PingInterval)

	return c, nil
}

// Conn is one open feed connection.
type Conn struct {
	url string
	ws  *websocket.Conn

	writeMu sync.Mutex // gorilla allows one concurrent writer

	frames    chan string
	done      chan struct{}
	readDone  chan struct{}
	closeOnce sync.Once

	closeGrace time.Duration
	writeWait  time.Duration
	logger     zerolog.Logger
}

// Frames returns the inbound text frames. The channel is closed once the read
// loop ends, either because the far end closed or because Close was called.
func (c *Conn) Frames() <-chan string {
	return c.frames
}

// Send writes one text frame.
func (c *Conn) Send(ctx context.Context, text string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(c.deadline(ctx, c.writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close sends a close frame and waits for the far end to acknowledge it, for at
// most the grace period or until ctx ends, then closes the socket regardless.
func (c *Conn) Close(ctx context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		err = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeWait),
		)
		c.writeMu.Unlock()
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}

		grace := time.NewTimer(time.Until(c.deadline(ctx, c.closeGrace)))
		defer grace.Stop()

		select {
		case <-c.readDone:
		case <-grace.C:
			c.logger.Debug().Msg("close handshake timed out, forcing close")
		case <-ctx.Done():
		}

		if cerr := c.ws.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

// deadline returns the ctx deadline, or now+fallback when ctx has none.
func (c *Conn) deadline(ctx context.Context, fallback time.Duration) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(fallback)
}

// readPump reads messages from the WebSocket until it fails
func (c *Conn) readPump() {
	defer func() {
		close(c.frames)
		close(c.readDone)
	}()

	for {
		msgType, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case <-c.done:
				default:
					c.logger.Warn().Err(err).Msg("WebSocket read error")
				}
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		// Frames that arrive after Close are dropped
		select {
		case c.frames <- string(message):
		case <-c.done:
		}
	}
}

// pingPump sends periodic ping messages
func (c *Conn) pingPump(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-c.readDone:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
			c.writeMu.Unlock()

			if err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket ping failed")
				return
			}
		}
	}
}
