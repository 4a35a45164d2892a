package engine

const (
	Rows      = 6
	Cols      = 7
	WinLength = 4
)

// Board is the 6x7 grid. Row 0 is the top row; pieces fall toward row Rows-1.
// Cells in a column are only ever written at the lowest empty row, so occupied
// cells stay contiguous from the bottom.
type Board struct {
	cells [Rows][Cols]Role
}

// line directions as {dRow, dCol}: horizontal, vertical, both diagonals
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func (b *Board) Cell(row, col int) Role {
	if !inBounds(row, col) {
		return RoleNone
	}
	return b.cells[row][col]
}

func (b *Board) ColumnFull(col int) bool {
	return b.cells[0][col] != RoleNone
}

// Drop places role in the lowest empty row of col and returns that row.
func (b *Board) Drop(col int, role Role) (int, error) {
	if col < 0 || col >= Cols {
		return -1, ErrInvalidColumn
	}
	for row := Rows - 1; row >= 0; row-- {
		if b.cells[row][col] == RoleNone {
			b.cells[row][col] = role
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// CheckWin reports whether the cell at (row, col) is part of a run of at
// least WinLength cells of role along any of the four lines through it.
func (b *Board) CheckWin(row, col int, role Role) bool {
	if !role.Valid() || b.Cell(row, col) != role {
		return false
	}

	for _, d := range directions {
		count := 1

		r, c := row+d[0], col+d[1]
		for inBounds(r, c) && b.cells[r][c] == role {
			count++
			r += d[0]
			c += d[1]
		}

		r, c = row-d[0], col-d[1]
		for inBounds(r, c) && b.cells[r][c] == role {
			count++
			r -= d[0]
			c -= d[1]
		}

		if count >= WinLength {
			return true
		}
	}
	return false
}

func (b *Board) Reset() {
	b.cells = [Rows][Cols]Role{}
}

// Cells returns a copy of the grid.
func (b *Board) Cells() [Rows][Cols]Role {
	return b.cells
}
