package engine

import (
	"fmt"
	"sort"
)

// Piece is a positioned token. Role is fixed at creation; the id is only a
// label and is never parsed.
type Piece struct {
	ID     string
	Role   Role
	X      int
	Y      int
	Cols   int
	Rows   int
	Placed bool

	seq int
}

func PieceID(role Role, seq int) string {
	return fmt.Sprintf("%s_%02d", role, seq)
}

func newPiece(role Role, seq int) *Piece {
	x, y := ReserveSlot(role, seq)
	return &Piece{
		ID:   PieceID(role, seq),
		Role: role,
		X:    x,
		Y:    y,
		Cols: 1,
		Rows: 1,
		seq:  seq,
	}
}

func newPieceSet() map[string]*Piece {
	pieces := make(map[string]*Piece, len(Roles)*PiecesPerRole)
	for _, role := range Roles {
		for i := 0; i < PiecesPerRole; i++ {
			p := newPiece(role, i)
			pieces[p.ID] = p
		}
	}
	return pieces
}

func (p *Piece) toReserve() {
	p.X, p.Y = ReserveSlot(p.Role, p.seq)
	p.Placed = false
}

// sortedPieces returns value copies ordered by id, which keeps snapshots
// stable between ticks.
func sortedPieces(pieces map[string]*Piece) []Piece {
	out := make([]Piece, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
