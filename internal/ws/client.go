package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DoyleJ11/connect-four-server/internal/registry"
)

// Client is one websocket connection. Sends are queued on a bounded outbox
// drained by a single writer goroutine; a client whose outbox fills up is
// dropped rather than allowed to stall the broadcaster.
type Client struct {
	id      string
	conn    *websocket.Conn
	out     chan []byte
	limiter *rate.Limiter
	opts    Options

	mu       sync.Mutex
	closed   bool
	slow     bool
	done     chan struct{}
	writerWG sync.WaitGroup
}

func newClient(conn *websocket.Conn, opts Options) *Client {
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		out:     make(chan []byte, opts.OutboxSize),
		limiter: rate.NewLimiter(rate.Limit(opts.InboundRate), opts.InboundBurst),
		opts:    opts,
		done:    make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Send queues p for delivery. It never blocks.
func (c *Client) Send(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return registry.ErrNotConnected
	}
	select {
	case c.out <- p:
		return nil
	default:
		c.slow = true
		c.closeLocked()
		return registry.ErrNotConnected
	}
}

// AllowCosmetic reports whether a pointer or drag update fits the inbound
// budget.
func (c *Client) AllowCosmetic() bool {
	return c.limiter.Allow()
}

func (c *Client) close() {
	c.mu.Lock()
	c.closeLocked()
	c.mu.Unlock()
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Client) startWriter(ctx context.Context, log *zap.Logger) {
	c.writerWG.Add(1)
	go func() {
		defer c.writerWG.Done()
		c.writeLoop(ctx, log)
	}()
}

func (c *Client) writeLoop(ctx context.Context, log *zap.Logger) {
	ping := time.NewTicker(c.opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			c.mu.Lock()
			slow := c.slow
			c.mu.Unlock()
			if slow {
				log.Warn("dropping slow client", zap.String("conn", c.id))
				_ = c.conn.Close(websocket.StatusPolicyViolation, "connection too slow")
			}
			return
		case p := <-c.out:
			wctx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, p)
			cancel()
			if err != nil {
				log.Debug("write failed", zap.String("conn", c.id), zap.Error(err))
				c.close()
				_ = c.conn.CloseNow()
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				log.Debug("ping failed", zap.String("conn", c.id), zap.Error(err))
				c.close()
				_ = c.conn.CloseNow()
				return
			}
		}
	}
}
