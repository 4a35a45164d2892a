package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect-four-server/internal/engine"
	"github.com/DoyleJ11/connect-four-server/internal/lobby"
	"github.com/DoyleJ11/connect-four-server/internal/registry"
	"github.com/DoyleJ11/connect-four-server/internal/types"
)

func newTestServer(t *testing.T) (*lobby.Lobby, string) {
	t.Helper()
	cfg := lobby.DefaultConfig()
	cfg.CountdownStep = time.Millisecond
	l := lobby.NewLobby(context.Background(), cfg, zap.NewNop())

	srv := httptest.NewServer(Handler(l, DefaultOptions(), zap.NewNop()))
	t.Cleanup(func() {
		srv.Close()
		l.Shutdown()
	})
	return l, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

type envelope struct {
	Type string `json:"type"`
	raw  []byte
}

func readMsg(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(data, &env))
	env.raw = data
	return env
}

func readCountdown(t *testing.T, conn *websocket.Conn) []int {
	t.Helper()
	var values []int
	for len(values) == 0 || values[len(values)-1] != 0 {
		env := readMsg(t, conn)
		if env.Type != types.TypeCountdown {
			continue
		}
		var cd types.Countdown
		require.NoError(t, json.Unmarshal(env.raw, &cd))
		values = append(values, cd.Value)
	}
	return values
}

func readServerData(t *testing.T, conn *websocket.Conn) types.ServerData {
	t.Helper()
	for {
		env := readMsg(t, conn)
		if env.Type != types.TypeServerData {
			continue
		}
		var sd types.ServerData
		require.NoError(t, json.Unmarshal(env.raw, &sd))
		return sd
	}
}

// seat connects red then yellow and drains the opening countdown.
func seat(t *testing.T, l *lobby.Lobby, url string) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	red := dial(t, url)
	require.Eventually(t, func() bool { return l.Population() == 1 }, 2*time.Second, time.Millisecond)
	yellow := dial(t, url)
	require.Eventually(t, func() bool { return l.Population() == 2 }, 2*time.Second, time.Millisecond)

	want := []int{5, 4, 3, 2, 1, 0}
	assert.Equal(t, want, readCountdown(t, red))
	assert.Equal(t, want, readCountdown(t, yellow))
	return red, yellow
}

func TestHandler_CountdownAndNamedSnapshots(t *testing.T) {
	l, url := newTestServer(t)
	red, yellow := seat(t, l, url)

	l.Broadcast()

	sdRed := readServerData(t, red)
	sdYellow := readServerData(t, yellow)
	assert.Equal(t, registry.DefaultNames[0], sdRed.ClientName)
	assert.Equal(t, registry.DefaultNames[1], sdYellow.ClientName)
	assert.Len(t, sdRed.ClientsList, 2)
	assert.Equal(t, "R", sdRed.CurrentTurn)
}

func TestHandler_PlayOverSocket(t *testing.T) {
	l, url := newTestServer(t)
	red, _ := seat(t, l, url)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, red.Write(ctx, websocket.MessageText,
		[]byte(`{"type":"clientPlay","column":3,"pieceId":"R_00"}`)))

	require.Eventually(t, func() bool {
		return l.State().Board[engine.Rows-1][3] == engine.RoleRed
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, engine.RoleYellow, l.State().Turn)
}

func TestHandler_DisconnectResetsMatch(t *testing.T) {
	l, url := newTestServer(t)
	red, yellow := seat(t, l, url)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, red.Write(ctx, websocket.MessageText,
		[]byte(`{"type":"clientPlay","column":0,"pieceId":"R_00"}`)))
	require.Eventually(t, func() bool { return l.State().Turn == engine.RoleYellow }, 2*time.Second, time.Millisecond)

	require.NoError(t, yellow.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return l.Population() == 1 }, 2*time.Second, time.Millisecond)

	sd := readServerData(t, red)
	assert.Len(t, sd.ClientsList, 1)
	assert.Equal(t, "R", sd.CurrentTurn)
	assert.Equal(t, engine.RoleNone, l.State().Board[engine.Rows-1][0])
}

func TestClient_FullOutboxDisconnects(t *testing.T) {
	opts := DefaultOptions()
	opts.OutboxSize = 1
	c := newClient(nil, opts)

	require.NoError(t, c.Send([]byte("a")))
	assert.ErrorIs(t, c.Send([]byte("b")), registry.ErrNotConnected)
	assert.ErrorIs(t, c.Send([]byte("c")), registry.ErrNotConnected)

	select {
	case <-c.done:
	default:
		t.Fatal("client not closed after overflow")
	}
}

func TestClient_AllowCosmetic(t *testing.T) {
	opts := DefaultOptions()
	opts.InboundRate = 0.001
	opts.InboundBurst = 2
	c := newClient(nil, opts)

	assert.True(t, c.AllowCosmetic())
	assert.True(t, c.AllowCosmetic())
	assert.False(t, c.AllowCosmetic())
}

func TestClient_IDsAreUnique(t *testing.T) {
	a := newClient(nil, DefaultOptions())
	b := newClient(nil, DefaultOptions())
	assert.NotEqual(t, a.ID(), b.ID())
}
