package strategy

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/fourmation/fourmation/board"
)

func mustApply(t *testing.T, b *board.Board, cols ...int) {
	t.Helper()
	for _, col := range cols {
		if err := b.Apply(col); err != nil {
			t.Fatalf("apply %d: %v", col, err)
		}
	}
}

func TestForLevelResolution(t *testing.T) {
	cases := []struct {
		name  string
		level Level
		depth int
	}{
		{"easy", Easy, 2},
		{"Easy", Easy, 2},
		{"medium", Medium, 3},
		{"hard", Hard, 5},
		{"HARD", Hard, 5},
		{"nonsense", Medium, 3},
		{"", Medium, 3},
	}
	for _, tc := range cases {
		p := ForLevel(tc.name)
		assert.Equal(t, tc.level, p.Level, "name %q", tc.name)
		assert.Equal(t, tc.depth, p.Config.Depth, "name %q", tc.name)
	}
}

// Every preset takes an immediate win, even the one that plays randomly.
func TestImmediateWinAlwaysTaken(t *testing.T) {
	is := is.New(t)

	base := board.NewBoard()
	mustApply(t, base, 0, 6, 1, 5, 2)
	base.SetOnTurn(board.PlayerOne)

	for _, level := range []string{"easy", "medium", "hard"} {
		preset := ForLevel(level)
		preset.RandomMoveChance = 1.0 // force the worst case
		p := NewPlayer(preset)
		for i := 0; i < 5; i++ {
			col, err := p.ChooseMove(context.Background(), base.Clone())
			is.NoErr(err)
			is.Equal(col, 3)
		}
	}
}

func TestHardBlocksImmediateThreat(t *testing.T) {
	is := is.New(t)

	b := board.NewBoard()
	mustApply(t, b, 2, 4, 2, 5, 1, 6)
	is.Equal(board.WinningColumns(b, board.PlayerTwo), []int{3})

	p := NewPlayer(ForLevel("hard"))
	col, err := p.ChooseMove(context.Background(), b)
	is.NoErr(err)
	is.Equal(col, 3)
}

func TestChosenMoveAlwaysLegal(t *testing.T) {
	is := is.New(t)

	for _, level := range []string{"easy", "medium", "hard"} {
		p := NewPlayer(ForLevel(level))
		b := board.NewBoard()
		for !b.IsTerminal() {
			col, err := p.ChooseMove(context.Background(), b)
			is.NoErr(err)
			legal := b.LegalColumns()
			found := false
			for _, l := range legal {
				if l == col {
					found = true
				}
			}
			is.True(found)
			is.NoErr(b.Apply(col))
		}
	}
}

func TestTerminalBoardRejected(t *testing.T) {
	is := is.New(t)

	b := board.NewBoard()
	mustApply(t, b, 3, 0, 3, 0, 3, 0, 3)

	p := NewPlayer(ForLevel("medium"))
	_, err := p.ChooseMove(context.Background(), b)
	is.True(err != nil)
}
