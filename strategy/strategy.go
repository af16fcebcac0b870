// Package strategy provides ready-made playing strengths on top of the
// search engine. Presets only vary depth, weights and a little deliberate
// randomness; the underlying algorithm is always the same solver.
package strategy

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/search"
)

type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"
)

// Preset is a named playing strength.
type Preset struct {
	Level  Level
	Config search.Config

	// RandomMoveChance makes the easy preset fallible: with this
	// probability a random legal column is played instead of the searched
	// one. Winning moves are still always taken.
	RandomMoveChance float64

	// SecondBestChance occasionally plays the runner-up move, the medium
	// preset's way of staying beatable without playing randomly.
	SecondBestChance float64

	// AlwaysBlocks short-circuits the search when the opponent threatens
	// to win in one move.
	AlwaysBlocks bool
}

// ForLevel resolves a preset by name, defaulting to medium on anything
// unrecognized.
func ForLevel(name string) Preset {
	switch Level(strings.ToLower(name)) {
	case Easy:
		return Preset{
			Level: Easy,
			Config: search.Config{
				Depth:   2,
				Weights: eval.Weights{Center: 3, OpenThree: 5, OpenTwo: 2, OppOpenThree: 10},
			},
			RandomMoveChance: 0.3,
		}
	case Hard:
		return Preset{
			Level: Hard,
			Config: search.Config{
				Depth:   5,
				Weights: eval.Weights{Center: 3, OpenThree: 10, OpenTwo: 3, OppOpenThree: 80},
			},
			AlwaysBlocks: true,
		}
	default:
		return Preset{
			Level: Medium,
			Config: search.Config{
				Depth:   3,
				Weights: eval.Weights{Center: 3, OpenThree: 5, OpenTwo: 2, OppOpenThree: 20},
			},
			SecondBestChance: 0.15,
		}
	}
}

// Player chooses moves for one side according to a preset.
type Player struct {
	preset Preset
	solver *search.Solver
}

func NewPlayer(preset Preset) *Player {
	return &Player{preset: preset, solver: search.NewSolver()}
}

func (p *Player) Preset() Preset {
	return p.preset
}

// ChooseMove picks a column for the player on turn. Regardless of preset, an
// immediate win is always taken.
func (p *Player) ChooseMove(ctx context.Context, b *board.Board) (int, error) {
	if b.IsTerminal() {
		return -1, search.ErrPositionTerminal
	}
	me := b.OnTurn()

	if wins := board.WinningColumns(b, me); len(wins) > 0 {
		return wins[0], nil
	}

	if p.preset.AlwaysBlocks {
		if threats := board.WinningColumns(b, me.Other()); len(threats) > 0 {
			log.Debug().Int("column", threats[0]).Msg("blocking-immediate-threat")
			return threats[0], nil
		}
	}

	legal := b.LegalColumns()
	if p.preset.RandomMoveChance > 0 && frand.Float64() < p.preset.RandomMoveChance {
		col := legal[frand.Intn(len(legal))]
		log.Debug().Int("column", col).Msg("playing-random-move")
		return col, nil
	}

	if p.preset.SecondBestChance > 0 && len(legal) > 1 && frand.Float64() < p.preset.SecondBestChance {
		return p.secondBest(ctx, b)
	}

	res, err := p.solver.FindBestMove(ctx, b.Clone(), p.preset.Config)
	if err != nil {
		return -1, err
	}
	return res.Column, nil
}

// secondBest ranks every legal move and returns the runner-up.
func (p *Player) secondBest(ctx context.Context, b *board.Board) (int, error) {
	type scored struct {
		col   int
		score int
	}
	var ranked []scored
	for _, col := range search.ColumnOrder {
		score, err := p.solver.EvaluateMove(ctx, b, col, p.preset.Config)
		if err != nil {
			if errors.Is(err, board.ErrInvalidMove) {
				continue // column full
			}
			return -1, err
		}
		ranked = append(ranked, scored{col, score})
	}
	best := 0
	for i, s := range ranked {
		if s.score > ranked[best].score {
			best = i
		}
	}
	second := -1
	for i, s := range ranked {
		if i == best {
			continue
		}
		if second == -1 || s.score > ranked[second].score {
			second = i
		}
	}
	if second == -1 {
		return ranked[best].col, nil
	}
	return ranked[second].col, nil
}
