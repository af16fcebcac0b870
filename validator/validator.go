// Package validator checks board snapshots against the game's structural
// invariants, expressed as named constraints over the grid and evaluated for
// satisfiability. It is a verification tool for tests and offline analysis,
// never part of the per-move hot path.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fourmation/fourmation/board"
)

// Invariant identifies one constraint so a failed check can say exactly
// which rule a snapshot broke.
type Invariant string

const (
	// InvariantCellDomain: every cell is Empty, PlayerOne or PlayerTwo.
	InvariantCellDomain Invariant = "cell-domain"
	// InvariantGravity: occupied cells in a column are contiguous from the
	// bottom row upward.
	InvariantGravity Invariant = "gravity"
	// InvariantParity: PlayerOne has equal pieces to PlayerTwo or exactly
	// one more (PlayerOne moves first, turns alternate).
	InvariantParity Invariant = "parity"
	// InvariantSingleWinner: at most one player has four in a row.
	InvariantSingleWinner Invariant = "single-winner"
)

var ErrInvariantViolation = errors.New("board invariant violated")

// Grid is a raw snapshot of cell values, addressed [row][col] with row 0 at
// the top. Checking raw grids (not just boards built through Apply) is the
// point: the checker must be able to reject states the board type itself
// could never produce.
type Grid [board.NumRows][board.NumCols]board.Player

// Snapshot extracts a Grid from a live board.
func Snapshot(b *board.Board) Grid {
	var g Grid
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col < board.NumCols; col++ {
			g[row][col] = b.Cell(row, col)
		}
	}
	return g
}

// Report is the verdict of one check: the conjunction of all constraints,
// plus the identifiers of any that failed.
type Report struct {
	Satisfiable bool
	Violated    []Invariant
}

// Err converts an unsatisfiable report into an error naming the violated
// invariants. Nil for a satisfiable one.
func (r Report) Err() error {
	if r.Satisfiable {
		return nil
	}
	ids := make([]string, len(r.Violated))
	for i, inv := range r.Violated {
		ids[i] = string(inv)
	}
	return fmt.Errorf("%w: %s", ErrInvariantViolation, strings.Join(ids, ", "))
}

type constraint struct {
	id    Invariant
	holds func(Grid) bool
}

// Checker evaluates a fixed set of constraints over grid snapshots.
type Checker struct {
	constraints []constraint
}

func New() *Checker {
	return &Checker{
		constraints: []constraint{
			{InvariantCellDomain, cellDomain},
			{InvariantGravity, gravity},
			{InvariantParity, parity},
			{InvariantSingleWinner, singleWinner},
		},
	}
}

// Check validates a live board.
func (c *Checker) Check(b *board.Board) Report {
	return c.CheckGrid(Snapshot(b))
}

// CheckGrid validates a raw snapshot. Every constraint is evaluated even
// after a failure so the report lists all violated invariants.
func (c *Checker) CheckGrid(g Grid) Report {
	report := Report{Satisfiable: true}
	for _, con := range c.constraints {
		if !con.holds(g) {
			report.Satisfiable = false
			report.Violated = append(report.Violated, con.id)
		}
	}
	return report
}

func cellDomain(g Grid) bool {
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col < board.NumCols; col++ {
			switch g[row][col] {
			case board.Empty, board.PlayerOne, board.PlayerTwo:
			default:
				return false
			}
		}
	}
	return true
}

// gravity: a piece implies a piece in the cell below it.
func gravity(g Grid) bool {
	for col := 0; col < board.NumCols; col++ {
		for row := 0; row < board.NumRows-1; row++ {
			if g[row][col] != board.Empty && g[row+1][col] == board.Empty {
				return false
			}
		}
	}
	return true
}

func parity(g Grid) bool {
	var one, two int
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col < board.NumCols; col++ {
			switch g[row][col] {
			case board.PlayerOne:
				one++
			case board.PlayerTwo:
				two++
			}
		}
	}
	return one == two || one == two+1
}

// singleWinner scans every window of the whole grid, independently of the
// board's own last-move win detection. The redundancy is deliberate: this
// checker exists to cross-examine that logic.
func singleWinner(g Grid) bool {
	return !(HasFour(g, board.PlayerOne) && HasFour(g, board.PlayerTwo))
}

// HasFour reports whether p has four in a row anywhere in the grid. Unlike
// the board's own win detection it does not rely on last-move bookkeeping,
// so it also works on snapshots whose move history is unknown.
func HasFour(g Grid, p board.Player) bool {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col < board.NumCols; col++ {
			if g[row][col] != p {
				continue
			}
			for _, d := range dirs {
				n := 1
				for step := 1; step < board.WinLength; step++ {
					r, c := row+step*d[0], col+step*d[1]
					if r < 0 || r >= board.NumRows || c < 0 || c >= board.NumCols {
						break
					}
					if g[r][c] != p {
						break
					}
					n++
				}
				if n >= board.WinLength {
					return true
				}
			}
		}
	}
	return false
}
