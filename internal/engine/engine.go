package engine

import "errors"

var ErrNoRole = errors.New("no role assigned")
var ErrWrongTurn = errors.New("invalid turn")
var ErrInvalidColumn = errors.New("invalid column")
var ErrColumnFull = errors.New("column full")
var ErrUnknownPiece = errors.New("unknown piece")
var ErrRoundOver = errors.New("round already won")
var ErrGameAlreadyCompleted = errors.New("game already completed")

// Role is one of the two playable sides. The zero value doubles as the empty
// board cell and as "no role" for spectators.
type Role string

const (
	RoleNone   Role = ""
	RoleRed    Role = "R"
	RoleYellow Role = "Y"
)

// Roles lists the playable sides in seating order.
var Roles = [2]Role{RoleRed, RoleYellow}

func (r Role) Valid() bool {
	return r == RoleRed || r == RoleYellow
}

func (r Role) Opponent() Role {
	switch r {
	case RoleRed:
		return RoleYellow
	case RoleYellow:
		return RoleRed
	default:
		return RoleNone
	}
}

type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseRoundWon   Phase = "round_won"
	PhaseGameWon    Phase = "game_won"
)
