package engine

import "strings"

const DefaultWinThreshold = 1

// Match holds the authoritative state of one two-player match: board, turn,
// scores, winners and the piece set. It does no locking of its own; callers
// serialize every access.
type Match struct {
	board        Board
	pieces       map[string]*Piece
	turn         Role
	scoreR       int
	scoreY       int
	roundWinner  Role
	gameWinner   Role
	winThreshold int
}

// State is a detached copy of a Match, safe to read after the lock that
// guarded the Match has been released.
type State struct {
	Turn        Role
	ScoreR      int
	ScoreY      int
	RoundWinner Role
	GameWinner  Role
	Phase       Phase
	Board       [Rows][Cols]Role
	Pieces      []Piece
}

type PlayResult struct {
	Row      int
	Col      int
	PieceID  string
	X        int
	Y        int
	RoundWon bool
	GameWon  bool
	NextTurn Role
}

func NewMatch(winThreshold int) *Match {
	if winThreshold < 1 {
		winThreshold = DefaultWinThreshold
	}
	return &Match{
		pieces:       newPieceSet(),
		turn:         RoleRed,
		winThreshold: winThreshold,
	}
}

func (m *Match) Phase() Phase {
	switch {
	case m.gameWinner != RoleNone:
		return PhaseGameWon
	case m.roundWinner != RoleNone:
		return PhaseRoundWon
	default:
		return PhaseInProgress
	}
}

func (m *Match) Turn() Role        { return m.turn }
func (m *Match) RoundWinner() Role { return m.roundWinner }
func (m *Match) GameWinner() Role  { return m.gameWinner }

// Cells returns a copy of the board grid.
func (m *Match) Cells() [Rows][Cols]Role {
	return m.board.Cells()
}

func (m *Match) Score(role Role) int {
	switch role {
	case RoleRed:
		return m.scoreR
	case RoleYellow:
		return m.scoreY
	default:
		return 0
	}
}

func (m *Match) Piece(id string) (Piece, bool) {
	p, ok := m.pieces[id]
	if !ok {
		return Piece{}, false
	}
	return *p, true
}

// Play drops pieceID into col on behalf of role. Every check runs before the
// first write, so a rejected play leaves the match untouched.
func (m *Match) Play(role Role, col int, pieceID string) (PlayResult, error) {
	if !role.Valid() {
		return PlayResult{}, ErrNoRole
	}
	if m.gameWinner != RoleNone {
		return PlayResult{}, ErrGameAlreadyCompleted
	}
	if m.roundWinner != RoleNone {
		return PlayResult{}, ErrRoundOver
	}
	if role != m.turn {
		return PlayResult{}, ErrWrongTurn
	}
	if col < 0 || col >= Cols {
		return PlayResult{}, ErrInvalidColumn
	}
	if m.board.ColumnFull(col) {
		return PlayResult{}, ErrColumnFull
	}
	piece, ok := m.pieces[strings.TrimSpace(pieceID)]
	if !ok || piece.Role != role || piece.Placed {
		return PlayResult{}, ErrUnknownPiece
	}

	row, err := m.board.Drop(col, role)
	if err != nil {
		return PlayResult{}, err
	}

	piece.X, piece.Y = CellCenter(row, col)
	piece.Placed = true

	res := PlayResult{Row: row, Col: col, PieceID: piece.ID, X: piece.X, Y: piece.Y}

	if m.board.CheckWin(row, col, role) {
		m.roundWinner = role
		if role == RoleRed {
			m.scoreR++
		} else {
			m.scoreY++
		}
		res.RoundWon = true
		if m.Score(role) >= m.winThreshold {
			m.gameWinner = role
			res.GameWon = true
		}
		// turn stays with the winner until the round is reset
		res.NextTurn = m.turn
		return res, nil
	}

	m.turn = m.turn.Opponent()
	res.NextTurn = m.turn
	return res, nil
}

// ResetRound clears the board and round winner, hands the turn to red and
// returns every piece to its reserve slot. Scores and the game winner stay.
func (m *Match) ResetRound() {
	m.board.Reset()
	m.turn = RoleRed
	m.roundWinner = RoleNone
	for _, p := range m.pieces {
		p.toReserve()
	}
}

// ContinueRound starts the next round after a win. It is a no-op, returning
// false, while a round is still in progress.
func (m *Match) ContinueRound() bool {
	if m.Phase() == PhaseInProgress {
		return false
	}
	m.ResetRound()
	return true
}

// Rematch resets the round and both scores from any state.
func (m *Match) Rematch() {
	m.ResetRound()
	m.scoreR = 0
	m.scoreY = 0
	m.gameWinner = RoleNone
}

// MovePiece repositions a reserve piece for drag feedback. Pieces already on
// the board are pinned to their cell.
func (m *Match) MovePiece(id string, x, y int) bool {
	p, ok := m.pieces[id]
	if !ok || p.Placed {
		return false
	}
	p.X = x
	p.Y = y
	return true
}

func (m *Match) Snapshot() State {
	return State{
		Turn:        m.turn,
		ScoreR:      m.scoreR,
		ScoreY:      m.scoreY,
		RoundWinner: m.roundWinner,
		GameWinner:  m.gameWinner,
		Phase:       m.Phase(),
		Board:       m.board.Cells(),
		Pieces:      sortedPieces(m.pieces),
	}
}
