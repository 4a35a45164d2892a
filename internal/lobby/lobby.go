package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/connect-four-server/internal/engine"
	"github.com/DoyleJ11/connect-four-server/internal/registry"
	"github.com/DoyleJ11/connect-four-server/internal/types"
)

type Config struct {
	RequiredPlayers int
	WinThreshold    int
	CountdownFrom   int
	CountdownStep   time.Duration
	Names           []string
	Colors          []string
}

func DefaultConfig() Config {
	return Config{
		RequiredPlayers: 2,
		WinThreshold:    engine.DefaultWinThreshold,
		CountdownFrom:   5,
		CountdownStep:   750 * time.Millisecond,
		Names:           registry.DefaultNames,
		Colors:          registry.DefaultColors,
	}
}

// Lobby is the single match session: the match itself, the connections
// watching it, and the countdown that gates each round.
//
// mu is the match lock. Every read and write of match happens while holding
// it, so a play can never interleave with another play or with the snapshot
// taken for a broadcast. The registry locks independently.
type Lobby struct {
	mu    sync.Mutex
	match *engine.Match

	clients   *registry.Registry
	countdown *Countdown

	cfg    Config
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewLobby(parent context.Context, cfg Config, log *zap.Logger) *Lobby {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		match:   engine.NewMatch(cfg.WinThreshold),
		clients: registry.New(cfg.Names, cfg.Colors),
		cfg:     cfg,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	l.countdown = NewCountdown(CountdownConfig{
		From:     cfg.CountdownFrom,
		Step:     cfg.CountdownStep,
		Required: cfg.RequiredPlayers,
	}, l.clients.Len, l.sendCountdown, log.Named("countdown"))
	return l
}

// Join registers c and, when it completes the table, starts the countdown.
func (l *Lobby) Join(c registry.Conn) registry.Identity {
	id := l.clients.Add(c)
	l.log.Info("client connected",
		zap.String("conn", id.ConnID),
		zap.String("name", id.Name),
		zap.String("color", id.Color),
		zap.String("role", string(id.Role)),
	)

	l.countdown.Start(l.ctx, l.resetRound)
	return id
}

// Leave unregisters c. It is safe to call more than once. When the table
// drops below the required player count the whole match is reset and the
// survivors get the new state right away.
func (l *Lobby) Leave(c registry.Conn) {
	id, ok := l.clients.Remove(c)
	if !ok {
		return
	}
	l.log.Info("client disconnected", zap.String("conn", id.ConnID), zap.String("name", id.Name))

	if l.clients.Len() >= l.cfg.RequiredPlayers {
		return
	}

	l.mu.Lock()
	l.match.Rematch()
	l.mu.Unlock()

	l.log.Info("match reset, not enough players", zap.Int("players", l.clients.Len()))
	l.Broadcast()
}

func (l *Lobby) Population() int {
	return l.clients.Len()
}

func (l *Lobby) resetRound() {
	l.mu.Lock()
	l.match.ResetRound()
	l.mu.Unlock()
}

// State returns a detached copy of the match.
func (l *Lobby) State() engine.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.match.Snapshot()
}

// Snapshot builds the serverData payload without a recipient name.
func (l *Lobby) Snapshot() types.ServerData {
	return buildServerData(l.State(), l.clients.Identities())
}

// Broadcast pushes the full snapshot to every connection, each copy stamped
// with the recipient's own name.
func (l *Lobby) Broadcast() {
	recipients := l.clients.Snapshot()
	if len(recipients) == 0 {
		return
	}

	body, err := json.Marshal(l.Snapshot())
	if err != nil {
		l.log.Error("encode snapshot", zap.Error(err))
		return
	}

	for c, id := range recipients {
		payload, err := types.StampClientName(body, id.Name)
		if err != nil {
			l.log.Error("stamp snapshot", zap.String("conn", id.ConnID), zap.Error(err))
			continue
		}
		l.deliver(c, payload)
	}
}

func (l *Lobby) sendCountdown(value int) {
	payload, err := json.Marshal(types.NewCountdown(value))
	if err != nil {
		l.log.Error("encode countdown", zap.Error(err))
		return
	}
	l.log.Debug("countdown tick", zap.Int("value", value))
	for c := range l.clients.Snapshot() {
		l.deliver(c, payload)
	}
}

// deliver sends to one connection. A connection found closed is cleaned up
// the same way an explicit close would be; other recipients are unaffected.
func (l *Lobby) deliver(c registry.Conn, payload []byte) {
	err := c.Send(payload)
	if err == nil {
		return
	}
	if errors.Is(err, registry.ErrNotConnected) {
		l.log.Debug("send to closed connection", zap.String("conn", c.ID()))
		l.Leave(c)
		return
	}
	l.log.Warn("send failed", zap.String("conn", c.ID()), zap.Error(err))
}

// Shutdown stops the countdown and waits for it to exit.
func (l *Lobby) Shutdown() {
	l.cancel()
	l.countdown.Wait()
}
