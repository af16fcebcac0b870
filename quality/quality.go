// Package quality classifies how good a played move was relative to the
// search engine's preferred move. The classification is the one structured
// signal this engine exposes for narrative generation, so it must be stable:
// identical inputs always produce the identical verdict.
package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/search"
)

// Quality is a three-valued verdict on one completed move.
type Quality uint8

const (
	Neutral Quality = iota
	Good
	Bad
)

func (q Quality) String() string {
	switch q {
	case Good:
		return "good"
	case Bad:
		return "bad"
	}
	return "neutral"
}

// edgeColumns are the outer columns a weak move tends to land in.
var edgeColumns = []int{0, 1, board.NumCols - 2, board.NumCols - 1}

// Options tune the classifier. Depth is the reference search depth;
// BadScoreGap is how far behind the best column an edge move must score
// before it is called out as bad.
type Options struct {
	Depth       int
	BadScoreGap int
	TimeBudget  time.Duration
	Weights     eval.Weights
}

var DefaultOptions = Options{
	Depth:       4,
	BadScoreGap: 50,
	Weights:     eval.DefaultWeights,
}

// Insight carries the reasoning behind a verdict for the narrative
// collaborator: what the engine would have played and what the move did.
type Insight struct {
	BestColumn     int
	BestScore      int
	ChosenScore    int
	WonImmediately bool
	BlockedWin     bool
	IgnoredBlock   bool
}

// Classifier wraps a solver with a fixed reference configuration.
type Classifier struct {
	solver *search.Solver
	opts   Options
}

func NewClassifier(opts Options) *Classifier {
	if opts.Depth < 1 {
		opts.Depth = DefaultOptions.Depth
	}
	if opts.Weights == (eval.Weights{}) {
		opts.Weights = DefaultOptions.Weights
	}
	return &Classifier{solver: search.NewSolver(), opts: opts}
}

// Classify judges player's drop into col on the position before the move.
// before is never mutated.
//
// Good: matches the engine's top choice, wins on the spot, or blocks an
// opponent's one-move win. Bad: ignores a blockable one-move opponent win,
// or picks an edge column while a materially better column exists. Neutral:
// everything else, including most center development.
func (c *Classifier) Classify(ctx context.Context, before *board.Board, col int, player board.Player) (Quality, Insight, error) {
	root := before.Clone()
	root.SetOnTurn(player)

	played := root.Clone()
	if err := played.Apply(col); err != nil {
		return Neutral, Insight{}, fmt.Errorf("classify: %w", err)
	}

	insight := Insight{BestColumn: -1}

	if played.Winner() == player {
		insight.WonImmediately = true
		return Good, insight, nil
	}

	oppWins := board.WinningColumns(root, player.Other())
	if lo.Contains(oppWins, col) {
		insight.BlockedWin = true
		return Good, insight, nil
	}
	if len(oppWins) == 1 {
		// Exactly one blocking column existed and the move went elsewhere.
		insight.IgnoredBlock = true
		return Bad, insight, nil
	}

	cfg := search.Config{
		Depth:      c.opts.Depth,
		TimeBudget: c.opts.TimeBudget,
		Weights:    c.opts.Weights,
	}
	best, err := c.solver.FindBestMove(ctx, root.Clone(), cfg)
	if err != nil {
		return Neutral, insight, err
	}
	insight.BestColumn = best.Column
	insight.BestScore = best.Score

	if col == best.Column {
		return Good, insight, nil
	}

	if lo.Contains(edgeColumns, col) {
		chosen, err := c.solver.EvaluateMove(ctx, root, col, cfg)
		if err != nil {
			return Neutral, insight, err
		}
		insight.ChosenScore = chosen
		if best.Score-chosen > c.opts.BadScoreGap {
			log.Debug().
				Int("column", col).
				Int("best-column", best.Column).
				Int("gap", best.Score-chosen).
				Msg("edge-move-materially-worse")
			return Bad, insight, nil
		}
	}

	return Neutral, insight, nil
}
