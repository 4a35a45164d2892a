package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/connect-four-server/internal/engine"
	"github.com/DoyleJ11/connect-four-server/internal/types"
)

func TestJoin_SecondPlayerStartsCountdown(t *testing.T) {
	l := newTestLobby(t, testConfig())
	red, yellow := newConn("red"), newConn("yellow")

	idR := l.Join(red)
	assert.Equal(t, engine.RoleRed, idR.Role)
	assert.False(t, l.countdown.Running(), "one player is not enough")

	idY := l.Join(yellow)
	assert.Equal(t, engine.RoleYellow, idY.Role)

	want := []int{5, 4, 3, 2, 1, 0}
	require.Eventually(t, func() bool { return len(yellow.countdown(t)) == len(want) }, time.Second, time.Millisecond)
	assert.Equal(t, want, red.countdown(t))
	assert.Equal(t, want, yellow.countdown(t))
}

func TestJoin_ThirdPlayerIsSpectator(t *testing.T) {
	l, _, _ := seated(t)
	spec := newConn("spec")
	id := l.Join(spec)

	assert.Equal(t, engine.RoleNone, id.Role)
	assert.False(t, l.ProcessPlay(spec, 0, "R_00"))
	assert.Equal(t, [engine.Rows][engine.Cols]engine.Role{}, l.State().Board)
}

func TestJoin_RejoinStartsFreshRound(t *testing.T) {
	l, red, yellow := seated(t)
	require.True(t, l.ProcessPlay(red, 0, "R_00"))

	l.Leave(yellow)
	l.Join(newConn("again"))

	s := l.State()
	assert.Equal(t, engine.RoleNone, s.Board[5][0])
	assert.Equal(t, engine.RoleRed, s.Turn)
}

func TestBroadcast_StampsRecipientName(t *testing.T) {
	l, red, yellow := seated(t)
	l.Broadcast()

	sr := red.lastSnapshot(t)
	sy := yellow.lastSnapshot(t)

	assert.Equal(t, "Bulbasaur", sr.ClientName)
	assert.Equal(t, "Charizard", sy.ClientName)
	assert.Equal(t, sr.ClientsList, sy.ClientsList)
	require.Len(t, sr.ClientsList, 2)
	assert.Equal(t, "R", sr.ClientsList[0].Role)
	assert.Equal(t, "Y", sr.ClientsList[1].Role)
	assert.Len(t, sr.ObjectsList, 2*engine.PiecesPerRole)
	assert.Equal(t, "R", sr.CurrentTurn)
	assert.Empty(t, sr.RoundWinner)
	assert.Empty(t, sr.GameWinner)
}

func TestBroadcast_EmptyLobbyIsNoOp(t *testing.T) {
	l := newTestLobby(t, testConfig())
	l.Broadcast()
	assert.Equal(t, 0, l.Population())
}

func TestBroadcast_ClosedConnectionIsCleanedUp(t *testing.T) {
	l, red, yellow := seated(t)
	spec := newConn("spec")
	l.Join(spec)
	spec.close()

	l.Broadcast()

	assert.Equal(t, 2, l.Population())
	assert.NotEmpty(t, red.snapshots(t))
	assert.NotEmpty(t, yellow.snapshots(t))
	_, ok := l.clients.Lookup(spec)
	assert.False(t, ok)
}

func TestBroadcast_StalePlayerTriggersFullReset(t *testing.T) {
	l, red, yellow := seated(t)
	require.True(t, l.ProcessPlay(red, 0, "R_00"))
	yellow.close()

	l.Broadcast()

	assert.Equal(t, 1, l.Population())
	s := l.State()
	assert.Equal(t, engine.RoleNone, s.Board[5][0])

	// the reset is pushed to the survivor; the snapshot encoded before the
	// failed send may still arrive after it
	var reset *types.ServerData
	for _, sd := range red.snapshots(t) {
		if len(sd.ClientsList) == 1 {
			sd := sd
			reset = &sd
		}
	}
	require.NotNil(t, reset, "survivor never saw the reset snapshot")
	for _, o := range reset.ObjectsList {
		if o.ID == "R_00" {
			x, y := engine.ReserveSlot(engine.RoleRed, 0)
			assert.Equal(t, x, o.X)
			assert.Equal(t, y, o.Y)
		}
	}
}

func TestLeave_BelowRequiredClearsScores(t *testing.T) {
	l, red, yellow := seated(t)
	for c := 0; c < 3; c++ {
		require.True(t, l.ProcessPlay(red, c, engine.PieceID(engine.RoleRed, c)))
		require.True(t, l.ProcessPlay(yellow, c, engine.PieceID(engine.RoleYellow, c)))
	}
	require.True(t, l.ProcessPlay(red, 3, "R_03"))
	require.Equal(t, 1, l.State().ScoreR)

	l.Leave(yellow)
	l.Leave(yellow)

	s := l.State()
	assert.Equal(t, 0, s.ScoreR)
	assert.Equal(t, engine.RoleNone, s.GameWinner)
	assert.Equal(t, engine.PhaseInProgress, s.Phase)
	assert.Equal(t, 0, red.lastSnapshot(t).ScoreR)
}

func TestLeave_SpectatorKeepsMatch(t *testing.T) {
	l, red, _ := seated(t)
	spec := newConn("spec")
	l.Join(spec)
	require.True(t, l.ProcessPlay(red, 0, "R_00"))

	before := len(red.snapshots(t))
	l.Leave(spec)

	assert.Equal(t, engine.RoleRed, l.State().Board[5][0])
	assert.Equal(t, before, len(red.snapshots(t)), "no reset broadcast")
}

func TestSnapshot_PlacedPieceCenter(t *testing.T) {
	l, red, _ := seated(t)
	require.True(t, l.ProcessPlay(red, 2, "R_04"))

	for _, o := range l.Snapshot().ObjectsList {
		if o.ID != "R_04" {
			continue
		}
		x, y := engine.CellCenter(5, 2)
		assert.Equal(t, x, o.X)
		assert.Equal(t, y, o.Y)
		assert.Equal(t, "R", o.Role)
		assert.Equal(t, 1, o.Cols)
		return
	}
	t.Fatalf("R_04 missing from snapshot")
}
