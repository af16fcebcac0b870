package board

import (
	"errors"
	"fmt"
	"strings"
)

// Board geometry. These are fixed for standard Connect Four; keeping them as
// named constants rather than struct fields lets the board be a value type
// with a trivially cheap Clone.
const (
	NumRows   = 6
	NumCols   = 7
	WinLength = 4
)

// Player is a cell value. Empty doubles as "no winner".
type Player uint8

const (
	Empty Player = iota
	PlayerOne
	PlayerTwo
)

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "PlayerOne"
	case PlayerTwo:
		return "PlayerTwo"
	}
	return "Empty"
}

// Other returns the opposing player. Only meaningful for PlayerOne/PlayerTwo.
func (p Player) Other() Player {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

var ErrInvalidMove = errors.New("invalid move")

// Coord addresses a cell. Row 0 is the top of the board; pieces stack from
// row NumRows-1 upward.
type Coord struct {
	Row int
	Col int
}

// Board is the full game state: the grid, the player on turn, and the last
// placed cell (used for incremental win detection). The zero value is not
// usable; call NewBoard.
type Board struct {
	cells     [NumRows][NumCols]Player
	onTurn    Player
	lastRow   int8
	lastCol   int8
	moveCount uint8
}

func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Reset restores the empty starting position with PlayerOne to move.
func (b *Board) Reset() {
	b.cells = [NumRows][NumCols]Player{}
	b.onTurn = PlayerOne
	b.lastRow = -1
	b.lastCol = -1
	b.moveCount = 0
}

func (b *Board) OnTurn() Player {
	return b.onTurn
}

// SetOnTurn re-roots the position at an arbitrary player. Analysis code uses
// this on clones to ask "what if it were p's move here"; it is not part of
// normal play, which alternates implicitly in Apply.
func (b *Board) SetOnTurn(p Player) {
	b.onTurn = p
}

func (b *Board) Cell(row, col int) Player {
	return b.cells[row][col]
}

func (b *Board) MoveCount() int {
	return int(b.moveCount)
}

// LastMove returns the most recently filled cell, if any move has been made.
func (b *Board) LastMove() (Coord, bool) {
	if b.lastRow < 0 {
		return Coord{}, false
	}
	return Coord{Row: int(b.lastRow), Col: int(b.lastCol)}, true
}

// LegalColumns returns the columns that can still accept a piece, in
// left-to-right order. It is recomputed from the grid on every call; callers
// must not assume any caching.
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, NumCols)
	for col := 0; col < NumCols; col++ {
		if b.cells[0][col] == Empty {
			cols = append(cols, col)
		}
	}
	return cols
}

func (b *Board) columnOpen(col int) bool {
	return col >= 0 && col < NumCols && b.cells[0][col] == Empty
}

// Apply drops the on-turn player's piece into col and passes the turn. The
// board is unchanged if the move is illegal.
func (b *Board) Apply(col int) error {
	if !b.columnOpen(col) {
		return fmt.Errorf("%w: column %d", ErrInvalidMove, col)
	}
	row := b.lowestOpenRow(col)
	b.cells[row][col] = b.onTurn
	b.lastRow = int8(row)
	b.lastCol = int8(col)
	b.moveCount++
	b.onTurn = b.onTurn.Other()
	return nil
}

func (b *Board) lowestOpenRow(col int) int {
	for row := NumRows - 1; row >= 0; row-- {
		if b.cells[row][col] == Empty {
			return row
		}
	}
	return -1
}

func (b *Board) Full() bool {
	return int(b.moveCount) == NumRows*NumCols
}

// IsTerminal reports whether the game is over, by win or by a full board.
func (b *Board) IsTerminal() bool {
	return b.Winner() != Empty || b.Full()
}

// Winner returns the winning player, or Empty if the game has no winner.
// Only the last placed piece can have completed a run, so we scan the four
// line directions through that cell rather than the whole grid. The search
// engine calls this at every node.
func (b *Board) Winner() Player {
	if b.lastRow < 0 {
		return Empty
	}
	if len(b.winningRunFromLast()) >= WinLength {
		return b.cells[b.lastRow][b.lastCol]
	}
	return Empty
}

// WinningLine returns the cells of the winning run, ordered along the line,
// or nil if nobody has won.
func (b *Board) WinningLine() []Coord {
	if b.lastRow < 0 {
		return nil
	}
	return b.winningRunFromLast()
}

// lineDirections are the four axes a run of four can lie along.
var lineDirections = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

func (b *Board) winningRunFromLast() []Coord {
	row, col := int(b.lastRow), int(b.lastCol)
	who := b.cells[row][col]
	if who == Empty {
		return nil
	}
	for _, d := range lineDirections {
		run := []Coord{{Row: row, Col: col}}
		// extend backward then forward along the axis
		for sign := -1; sign <= 1; sign += 2 {
			for step := 1; step < WinLength; step++ {
				r := row + sign*step*d[0]
				c := col + sign*step*d[1]
				if r < 0 || r >= NumRows || c < 0 || c >= NumCols {
					break
				}
				if b.cells[r][c] != who {
					break
				}
				if sign < 0 {
					run = append([]Coord{{Row: r, Col: c}}, run...)
				} else {
					run = append(run, Coord{Row: r, Col: c})
				}
			}
		}
		if len(run) >= WinLength {
			return run
		}
	}
	return nil
}

// Clone returns an independent deep copy. Search works exclusively on clones
// so speculative moves never touch the live game state.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			switch b.cells[row][col] {
			case PlayerOne:
				sb.WriteByte('X')
			case PlayerTwo:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("0 1 2 3 4 5 6")
	return sb.String()
}

// CountPieces returns the number of cells occupied by p.
func (b *Board) CountPieces(p Player) int {
	n := 0
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			if b.cells[row][col] == p {
				n++
			}
		}
	}
	return n
}
