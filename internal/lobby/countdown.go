package lobby

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type CountdownConfig struct {
	From     int
	Step     time.Duration
	Required int
}

// Countdown is the one-shot pre-round sequence. It emits From..0 with Step
// between values and silently stops as soon as the population falls below
// Required. At most one sequence runs at a time.
type Countdown struct {
	cfg        CountdownConfig
	population func() int
	emit       func(value int)
	log        *zap.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

func NewCountdown(cfg CountdownConfig, population func() int, emit func(int), log *zap.Logger) *Countdown {
	if log == nil {
		log = zap.NewNop()
	}
	return &Countdown{cfg: cfg, population: population, emit: emit, log: log}
}

// Start launches a sequence if none is running and exactly the required
// number of players is present. onStart runs synchronously before the first
// tick. The sequence ends early when ctx is cancelled.
func (c *Countdown) Start(ctx context.Context, onStart func()) bool {
	c.mu.Lock()
	if c.running || c.population() != c.cfg.Required {
		c.mu.Unlock()
		return false
	}
	c.running = true
	c.wg.Add(1)
	c.mu.Unlock()

	if onStart != nil {
		onStart()
	}

	c.log.Info("countdown started", zap.Int("from", c.cfg.From))
	go c.run(ctx)
	return true
}

func (c *Countdown) run(ctx context.Context) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	for v := c.cfg.From; v >= 0; v-- {
		if n := c.population(); n < c.cfg.Required {
			c.log.Info("countdown aborted", zap.Int("at", v), zap.Int("players", n))
			return
		}

		c.emit(v)
		if v == 0 {
			return
		}

		t := time.NewTimer(c.cfg.Step)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Wait blocks until the active sequence, if any, has returned.
func (c *Countdown) Wait() {
	c.wg.Wait()
}
