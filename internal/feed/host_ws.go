package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

const (
	// writeWait is the time allowed to write a message to the host.
	writeWait = 10 * time.Second

	// handshakeTimeout bounds the websocket dial.
	handshakeTimeout = 15 * time.Second
)

// TickHandler processes one decoded tick and returns the reply for the host.
type TickHandler func(ctx context.Context, in domain.TickInput) (domain.TickResult, error)

// HostFeed is the websocket adapter to the host's tick loop. It reads tick
// messages, hands each to the handler, and writes the result back on the same
// connection. On disconnect it reconnects with a fixed delay until the
// context is cancelled.
type HostFeed struct {
	url       string
	handler   TickHandler
	reconnect time.Duration
	logger    *slog.Logger
	closeOnce sync.Once
	done      chan struct{}
}

// NewHostFeed creates a feed against the given host websocket URL.
func NewHostFeed(url string, reconnect time.Duration, handler TickHandler, logger *slog.Logger) *HostFeed {
	if reconnect <= 0 {
		reconnect = 2 * time.Second
	}
	return &HostFeed{
		url:       url,
		handler:   handler,
		reconnect: reconnect,
		logger:    logger.With(slog.String("component", "host_feed")),
		done:      make(chan struct{}),
	}
}

// Run connects and processes ticks until ctx is cancelled or Close is called.
// It reconnects after transport errors; handler errors for a single tick are
// logged and the tick is skipped, since the host carries the authoritative
// state forward.
func (f *HostFeed) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		default:
		}

		if err := f.runConnection(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.logger.Warn("host feed disconnected, reconnecting",
				slog.String("error", err.Error()),
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return nil
		case <-time.After(f.reconnect):
		}
	}
}

func (f *HostFeed) runConnection(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("feed: connect %s: %w", f.url, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	f.logger.Info("host feed connected", slog.String("url", f.url))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("feed: read: %w", domain.ErrWSDisconnect)
		}

		in, err := DecodeTick(data)
		if err != nil {
			f.logger.Error("bad tick message, skipping", slog.String("error", err.Error()))
			continue
		}

		res, err := f.handler(ctx, in)
		if err != nil {
			f.logger.Error("tick handler failed",
				slog.Int64("timestamp", in.Timestamp),
				slog.String("error", err.Error()),
			)
			continue
		}

		reply, err := EncodeResult(res)
		if err != nil {
			f.logger.Error("encode result failed", slog.String("error", err.Error()))
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			return fmt.Errorf("feed: write: %w", domain.ErrWSDisconnect)
		}
	}
}

// Close stops the feed.
func (f *HostFeed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}
