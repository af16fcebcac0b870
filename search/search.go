// Package search implements minimax with alpha-beta pruning over Connect
// Four positions. One algorithm serves both the full-depth and depth-limited
// configurations; they differ only in the Config handed to FindBestMove.
package search

import (
	"errors"
	"time"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/eval"
)

// MaxDepth bounds recursion regardless of configuration. Practical depths
// stay at or below 10; the bound guards against misconfiguration, not use.
const MaxDepth = 24

var (
	ErrPositionTerminal = errors.New("cannot search a terminal position")
	ErrBadDepth         = errors.New("search depth must be at least 1")
)

// Config selects a search effort level. A Config value is fixed for the one
// search it was selected for and never revised mid-search.
type Config struct {
	Depth      int
	TimeBudget time.Duration // zero means no budget
	Weights    eval.Weights
}

// Result is the outcome of one search. Score is from the perspective of the
// player on turn at the root; positive favors them.
type Result struct {
	Column       int
	Score        int
	DepthReached int
	Nodes        uint64
}

// ColumnOrder is the exploration order: center first, then alternating
// outward. Centered moves tend to be strongest, so trying them first is what
// keeps alpha-beta cutoffs early enough to fit the time budget.
var ColumnOrder = centerOutwardOrder()

func centerOutwardOrder() []int {
	center := board.NumCols / 2
	order := []int{center}
	for i := 1; i <= board.NumCols/2; i++ {
		if center-i >= 0 {
			order = append(order, center-i)
		}
		if center+i < board.NumCols {
			order = append(order, center+i)
		}
	}
	return order
}
