// Package eval provides the static position evaluator used at search leaves.
// Scores are from the perspective of one player: positive favors that player.
package eval

import "github.com/fourmation/fourmation/board"

// WinScore is the terminal sentinel. It is far beyond any attainable sum of
// window scores, so a decided board always dominates heuristic values.
const WinScore = 1_000_000

// fourWindow scores a window already containing four pieces of one color.
// Normally unreachable (terminal boards short-circuit before the window scan)
// but kept for hand-built analysis positions whose last move is unknown.
const fourWindow = 100

// Weights are the tuning constants of the evaluator. They are parameters
// rather than package constants so the depth-limited configuration can run a
// cheaper profile and tests can calibrate against known positions.
type Weights struct {
	Center       int // per own piece in the center column
	OpenThree    int // three own pieces plus one empty in a window
	OpenTwo      int // two own pieces plus two empties in a window
	OppOpenThree int // penalty for an opponent open three in a window
}

// DefaultWeights is the full evaluation profile.
var DefaultWeights = Weights{
	Center:       3,
	OpenThree:    5,
	OpenTwo:      2,
	OppOpenThree: 80,
}

// ReducedWeights only tracks own open threes. It is the cheap profile used
// when the thermal selector drops to its smallest configuration.
var ReducedWeights = Weights{
	OpenThree: 5,
}

// Score evaluates b for perspective. Pure and deterministic: identical boards
// produce identical scores regardless of call order.
func Score(b *board.Board, perspective board.Player, w Weights) int {
	if winner := b.Winner(); winner != board.Empty {
		if winner == perspective {
			return WinScore
		}
		return -WinScore
	}
	if b.Full() {
		return 0
	}

	score := 0

	// Center occupancy: pieces in the middle column touch the most windows.
	center := board.NumCols / 2
	for row := 0; row < board.NumRows; row++ {
		if b.Cell(row, center) == perspective {
			score += w.Center
		}
	}

	// Horizontal windows.
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col <= board.NumCols-board.WinLength; col++ {
			score += scoreWindow(b, perspective, w, row, col, 0, 1)
		}
	}
	// Vertical windows.
	for col := 0; col < board.NumCols; col++ {
		for row := 0; row <= board.NumRows-board.WinLength; row++ {
			score += scoreWindow(b, perspective, w, row, col, 1, 0)
		}
	}
	// Down-right diagonals.
	for row := 0; row <= board.NumRows-board.WinLength; row++ {
		for col := 0; col <= board.NumCols-board.WinLength; col++ {
			score += scoreWindow(b, perspective, w, row, col, 1, 1)
		}
	}
	// Up-right diagonals.
	for row := board.WinLength - 1; row < board.NumRows; row++ {
		for col := 0; col <= board.NumCols-board.WinLength; col++ {
			score += scoreWindow(b, perspective, w, row, col, -1, 1)
		}
	}

	return score
}

func scoreWindow(b *board.Board, perspective board.Player, w Weights, row, col, dr, dc int) int {
	var own, empty, opp int
	for i := 0; i < board.WinLength; i++ {
		switch b.Cell(row+i*dr, col+i*dc) {
		case perspective:
			own++
		case board.Empty:
			empty++
		default:
			opp++
		}
	}
	switch {
	case own == 4:
		return fourWindow
	case own == 3 && empty == 1:
		return w.OpenThree
	case own == 2 && empty == 2:
		return w.OpenTwo
	case opp == 3 && empty == 1:
		return -w.OppOpenThree
	}
	return 0
}
