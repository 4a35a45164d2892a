package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect-four-server/internal/lobby"
)

type Options struct {
	OriginPatterns []string
	OutboxSize     int
	InboundRate    float64
	InboundBurst   int
	WriteTimeout   time.Duration
	PingInterval   time.Duration
}

func DefaultOptions() Options {
	return Options{
		OriginPatterns: []string{"*"},
		OutboxSize:     16,
		InboundRate:    120,
		InboundBurst:   30,
		WriteTimeout:   3 * time.Second,
		PingInterval:   30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.OutboxSize <= 0 {
		o.OutboxSize = d.OutboxSize
	}
	if o.InboundRate <= 0 {
		o.InboundRate = d.InboundRate
	}
	if o.InboundBurst <= 0 {
		o.InboundBurst = d.InboundBurst
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = d.WriteTimeout
	}
	if o.PingInterval <= 0 {
		o.PingInterval = d.PingInterval
	}
	return o
}

// Handler upgrades the request and attaches the connection to l until either
// side closes it.
func Handler(l *lobby.Lobby, opts Options, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := newClient(conn, opts)
		c.startWriter(ctx, log)
		defer c.writerWG.Wait()

		l.Join(c)
		defer func() {
			c.close()
			l.Leave(c)
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("read failed", zap.String("conn", c.ID()), zap.Error(err))
					}
				}
				return
			}
			l.HandleMessage(c, data)
		}
	}
}
