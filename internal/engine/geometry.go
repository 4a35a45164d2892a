package engine

// Pixel geometry shared with renderers. Placed pieces are published at the
// exact center of their cell so clients need no game logic of their own.
const (
	GridOriginX = 25
	GridOriginY = 25
	CellSize    = 50
	PieceRadius = 20

	PiecesPerRole = 21

	reserveX        = 450
	reserveY        = 50
	reserveSpacing  = 45
	reserveColumnsX = 90 // yellow reserve sits two columns right of red
)

type Geometry struct {
	OriginX     int `json:"originX"`
	OriginY     int `json:"originY"`
	CellSize    int `json:"cellSize"`
	Rows        int `json:"rows"`
	Cols        int `json:"cols"`
	PieceRadius int `json:"pieceRadius"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		OriginX:     GridOriginX,
		OriginY:     GridOriginY,
		CellSize:    CellSize,
		Rows:        Rows,
		Cols:        Cols,
		PieceRadius: PieceRadius,
	}
}

// CellCenter returns the pixel center of the board cell at (row, col).
func CellCenter(row, col int) (x, y int) {
	x = GridOriginX + col*CellSize + CellSize/2
	y = GridOriginY + row*CellSize + CellSize/2
	return x, y
}

// ReserveSlot returns the off-board position of the seq-th piece of role.
// Pieces are stacked in two columns per role.
func ReserveSlot(role Role, seq int) (x, y int) {
	x = reserveX + (seq%2)*reserveSpacing
	if role == RoleYellow {
		x += reserveColumnsX
	}
	y = reserveY + (seq/2)*reserveSpacing
	return x, y
}
