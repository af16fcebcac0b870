package quality

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/search"
)

func mustApply(t *testing.T, b *board.Board, cols ...int) {
	t.Helper()
	for _, col := range cols {
		if err := b.Apply(col); err != nil {
			t.Fatalf("apply %d: %v", col, err)
		}
	}
}

// The engine's own top choice must always classify as good.
func TestEngineChoiceIsGood(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	b := board.NewBoard()
	mustApply(t, b, 3, 3, 2)
	player := b.OnTurn()

	solver := search.NewSolver()
	best, err := solver.FindBestMove(ctx, b.Clone(), search.Config{
		Depth:   DefaultOptions.Depth,
		Weights: eval.DefaultWeights,
	})
	is.NoErr(err)

	c := NewClassifier(DefaultOptions)
	q, insight, err := c.Classify(ctx, b, best.Column, player)
	is.NoErr(err)
	is.Equal(q, Good)
	is.True(insight.WonImmediately || insight.BlockedWin || insight.BestColumn == best.Column)
}

func TestImmediateWinIsGood(t *testing.T) {
	is := is.New(t)

	// X on the bottom row at 0,1,2; dropping in 3 wins on the spot.
	b := board.NewBoard()
	mustApply(t, b, 0, 6, 1, 5, 2)

	c := NewClassifier(DefaultOptions)
	q, insight, err := c.Classify(context.Background(), b, 3, board.PlayerOne)
	is.NoErr(err)
	is.Equal(q, Good)
	is.True(insight.WonImmediately)
}

func TestBlockingMoveIsGood(t *testing.T) {
	is := is.New(t)

	// O threatens to win at column 3; X blocks it.
	b := board.NewBoard()
	mustApply(t, b, 2, 4, 2, 5, 1, 6)
	is.Equal(board.WinningColumns(b, board.PlayerTwo), []int{3})

	c := NewClassifier(DefaultOptions)
	q, insight, err := c.Classify(context.Background(), b, 3, board.PlayerOne)
	is.NoErr(err)
	is.Equal(q, Good)
	is.True(insight.BlockedWin)
}

func TestIgnoringBlockableWinIsBad(t *testing.T) {
	is := is.New(t)

	b := board.NewBoard()
	mustApply(t, b, 2, 4, 2, 5, 1, 6)

	c := NewClassifier(DefaultOptions)
	q, insight, err := c.Classify(context.Background(), b, 2, board.PlayerOne)
	is.NoErr(err)
	is.Equal(q, Bad)
	is.True(insight.IgnoredBlock)
}

func TestEdgeMoveWithMateriallyBetterOptionIsBad(t *testing.T) {
	is := is.New(t)

	// X has three stacked in column 2 and a win on top of them; dumping a
	// piece on the far edge lets O block and throws the win away.
	b := board.NewBoard()
	mustApply(t, b, 2, 4, 2, 4, 2, 6)
	is.Equal(b.OnTurn(), board.PlayerOne)

	c := NewClassifier(DefaultOptions)
	q, insight, err := c.Classify(context.Background(), b, 6, board.PlayerOne)
	is.NoErr(err)
	is.Equal(q, Bad)
	is.True(insight.BestScore-insight.ChosenScore > DefaultOptions.BadScoreGap)
}

func TestCenterDevelopmentIsNeutral(t *testing.T) {
	is := is.New(t)

	c := NewClassifier(DefaultOptions)
	q, _, err := c.Classify(context.Background(), board.NewBoard(), 2, board.PlayerOne)
	is.NoErr(err)
	is.Equal(q, Neutral)
}

func TestClassifyIsDeterministic(t *testing.T) {
	is := is.New(t)

	b := board.NewBoard()
	mustApply(t, b, 3, 2, 4, 2)
	player := b.OnTurn()

	c := NewClassifier(DefaultOptions)
	first, _, err := c.Classify(context.Background(), b, 1, player)
	is.NoErr(err)
	for i := 0; i < 3; i++ {
		q, _, err := c.Classify(context.Background(), b, 1, player)
		is.NoErr(err)
		is.Equal(q, first)
	}
}

func TestClassifyRejectsIllegalColumn(t *testing.T) {
	is := is.New(t)

	b := board.NewBoard()
	for i := 0; i < board.NumRows; i++ {
		mustApply(t, b, 0)
	}

	c := NewClassifier(DefaultOptions)
	_, _, err := c.Classify(context.Background(), b, 0, b.OnTurn())
	is.True(err != nil)
}
