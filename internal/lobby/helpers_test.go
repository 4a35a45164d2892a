package lobby

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect-four-server/internal/registry"
	"github.com/DoyleJ11/connect-four-server/internal/types"
)

type fakeConn struct {
	id string

	mu     sync.Mutex
	closed bool
	msgs   [][]byte
}

func newConn(id string) *fakeConn { return &fakeConn{id: id} }

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return registry.ErrNotConnected
	}
	f.msgs = append(f.msgs, append([]byte(nil), p...))
	return nil
}

func (f *fakeConn) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeConn) raw() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.msgs...)
}

func (f *fakeConn) snapshots(t *testing.T) []types.ServerData {
	t.Helper()
	var out []types.ServerData
	for _, m := range f.raw() {
		var env struct{ Type string }
		require.NoError(t, json.Unmarshal(m, &env))
		if env.Type != types.TypeServerData {
			continue
		}
		var sd types.ServerData
		require.NoError(t, json.Unmarshal(m, &sd))
		out = append(out, sd)
	}
	return out
}

func (f *fakeConn) countdown(t *testing.T) []int {
	t.Helper()
	var out []int
	for _, m := range f.raw() {
		var cd types.Countdown
		require.NoError(t, json.Unmarshal(m, &cd))
		if cd.Type == types.TypeCountdown {
			out = append(out, cd.Value)
		}
	}
	return out
}

func (f *fakeConn) lastSnapshot(t *testing.T) types.ServerData {
	t.Helper()
	snaps := f.snapshots(t)
	require.NotEmpty(t, snaps, "no snapshot received by %s", f.id)
	return snaps[len(snaps)-1]
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CountdownStep = time.Millisecond
	return cfg
}

func newTestLobby(t *testing.T, cfg Config) *Lobby {
	t.Helper()
	l := NewLobby(context.Background(), cfg, zap.NewNop())
	t.Cleanup(l.Shutdown)
	return l
}

// seated returns a lobby with red and yellow joined and the countdown done.
func seated(t *testing.T) (*Lobby, *fakeConn, *fakeConn) {
	t.Helper()
	l := newTestLobby(t, testConfig())
	red, yellow := newConn("red"), newConn("yellow")
	l.Join(red)
	l.Join(yellow)
	require.Eventually(t, func() bool { return !l.countdown.Running() }, time.Second, time.Millisecond)
	return l, red, yellow
}

func msg(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
