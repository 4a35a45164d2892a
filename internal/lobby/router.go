package lobby

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/connect-four-server/internal/engine"
	"github.com/DoyleJ11/connect-four-server/internal/registry"
	"github.com/DoyleJ11/connect-four-server/internal/types"
)

var errUnknownConn = errors.New("connection not registered")
var errThrottled = errors.New("rate limited")

type handlerFunc func(l *Lobby, c registry.Conn, msg types.ClientMessage) error

var routes = map[string]handlerFunc{
	types.TypeClientMouseMoving:   (*Lobby).handlePointer,
	types.TypeClientObjectMoving:  (*Lobby).handleObjectMove,
	types.TypeClientPieceMoving:   (*Lobby).handlePieceMoving,
	types.TypeClientPlay:          (*Lobby).handlePlay,
	types.TypeClientContinueRound: (*Lobby).handleContinueRound,
	types.TypeClientRematch:       (*Lobby).handleRematch,
}

// throttler is implemented by connections that rate-limit cosmetic traffic.
type throttler interface {
	AllowCosmetic() bool
}

func allowCosmetic(c registry.Conn) bool {
	if t, ok := c.(throttler); ok {
		return t.AllowCosmetic()
	}
	return true
}

// HandleMessage applies every newline-separated message in data on behalf of
// c. Malformed, unknown and illegal messages are dropped; the sender is never
// told.
func (l *Lobby) HandleMessage(c registry.Conn, data []byte) {
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		l.route(c, line)
	}
}

func (l *Lobby) route(c registry.Conn, line []byte) {
	var msg types.ClientMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		l.log.Debug("dropping malformed message", zap.String("conn", c.ID()), zap.Error(err))
		return
	}

	h, ok := routes[msg.Type]
	if !ok {
		l.log.Debug("dropping unknown message", zap.String("conn", c.ID()), zap.String("type", msg.Type))
		return
	}

	if err := h(l, c, msg); err != nil {
		l.log.Debug("message rejected",
			zap.String("conn", c.ID()),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
	}
}

func decodeValue(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return types.ErrMissingField
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}

func (l *Lobby) handlePointer(c registry.Conn, msg types.ClientMessage) error {
	if !allowCosmetic(c) {
		return errThrottled
	}
	var v types.PointerValue
	if err := decodeValue(msg.Value, &v); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	p := registry.Pointer{X: *v.MouseX, Y: *v.MouseY, Row: -1, Col: -1}
	if v.Row != nil && v.Col != nil && *v.Row >= 0 && *v.Col >= 0 {
		p.Row, p.Col = *v.Row, *v.Col
	}
	if !l.clients.UpdatePointer(c, p) {
		return errUnknownConn
	}
	return nil
}

func (l *Lobby) handleObjectMove(c registry.Conn, msg types.ClientMessage) error {
	if !allowCosmetic(c) {
		return errThrottled
	}
	var v types.ObjectValue
	if err := decodeValue(msg.Value, &v); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if _, ok := l.clients.Lookup(c); !ok {
		return errUnknownConn
	}

	l.mu.Lock()
	moved := l.match.MovePiece(v.ID, *v.X, *v.Y)
	l.mu.Unlock()

	if !moved {
		return engine.ErrUnknownPiece
	}
	return nil
}

// Drag progress is rendered client side only.
func (l *Lobby) handlePieceMoving(registry.Conn, types.ClientMessage) error {
	return nil
}

func (l *Lobby) handlePlay(c registry.Conn, msg types.ClientMessage) error {
	col := -1
	if msg.Column != nil {
		col = *msg.Column
	}
	_, err := l.play(c, col, msg.PieceID)
	return err
}

// ProcessPlay applies a play for c and reports whether it was accepted.
func (l *Lobby) ProcessPlay(c registry.Conn, col int, pieceID string) bool {
	_, err := l.play(c, col, pieceID)
	return err == nil
}

func (l *Lobby) play(c registry.Conn, col int, pieceID string) (engine.PlayResult, error) {
	id, ok := l.clients.Lookup(c)
	if !ok {
		return engine.PlayResult{}, errUnknownConn
	}

	l.mu.Lock()
	res, err := l.match.Play(id.Role, col, pieceID)
	l.mu.Unlock()

	if err != nil {
		return res, fmt.Errorf("play by %s: %w", id.Name, err)
	}

	l.log.Debug("piece played",
		zap.String("name", id.Name),
		zap.String("role", string(id.Role)),
		zap.String("piece", res.PieceID),
		zap.Int("row", res.Row),
		zap.Int("col", res.Col),
	)
	if res.RoundWon {
		l.log.Info("round won", zap.String("role", string(id.Role)), zap.Bool("game", res.GameWon))
	}
	return res, nil
}

func (l *Lobby) handleContinueRound(c registry.Conn, _ types.ClientMessage) error {
	if _, ok := l.clients.Lookup(c); !ok {
		return errUnknownConn
	}

	l.mu.Lock()
	l.match.ContinueRound()
	l.mu.Unlock()

	l.Broadcast()
	return nil
}

func (l *Lobby) handleRematch(c registry.Conn, _ types.ClientMessage) error {
	if _, ok := l.clients.Lookup(c); !ok {
		return errUnknownConn
	}

	l.mu.Lock()
	l.match.Rematch()
	l.mu.Unlock()

	l.log.Info("rematch")
	l.Broadcast()
	return nil
}
