package hub

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultFPS = 60

// Broadcaster pushes the current state to every connection.
type Broadcaster interface {
	Broadcast()
}

// Hub republishes the lobby's snapshot at a fixed rate for the lifetime of
// the process, independent of when the match changes.
type Hub struct {
	target   Broadcaster
	interval time.Duration
	log      *zap.Logger
}

func NewHub(target Broadcaster, fps int, log *zap.Logger) *Hub {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if log == nil {
		log = zap.NewNop()
	}
	interval := time.Second / time.Duration(fps)
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Hub{target: target, interval: interval, log: log}
}

func (h *Hub) Interval() time.Duration { return h.interval }

// Run ticks until ctx is cancelled. A panic inside one tick is logged and the
// loop keeps going.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.log.Info("broadcast loop started", zap.Duration("interval", h.interval))
	for {
		select {
		case <-ctx.Done():
			h.log.Info("broadcast loop stopped")
			return nil

		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *Hub) tick() {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("broadcast tick panicked", zap.Any("panic", r))
		}
	}()
	h.target.Broadcast()
}
