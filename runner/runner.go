// Package runner drives a full game: it owns the live board, asks the
// thermal selector for a search configuration before every engine move, and
// reports each completed move to a narrative sink.
package runner

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/quality"
	"github.com/fourmation/fourmation/search"
	"github.com/fourmation/fourmation/thermal"
)

// NarrativeSink receives one notification per completed move. before is the
// position the move was played into and is never mutated afterwards. Sink
// errors are logged, never propagated: narration must not be able to stall
// the game.
type NarrativeSink interface {
	MovePlayed(before *board.Board, col int, player board.Player, q quality.Quality, insight quality.Insight) error
}

// Options configure a GameRunner. Selector and Sink are optional; Fallback
// is the search configuration used when no selector is present.
type Options struct {
	Selector *thermal.Selector
	Sink     NarrativeSink
	Fallback search.Config
	Quality  quality.Options
}

func DefaultOptions() Options {
	return Options{
		Fallback: search.Config{Depth: 6},
		Quality:  quality.DefaultOptions,
	}
}

// GameRunner owns one game in progress. All methods are safe for concurrent
// use, though a game is naturally sequential.
type GameRunner struct {
	mu         sync.Mutex
	board      *board.Board
	solver     *search.Solver
	classifier *quality.Classifier
	opts       Options
}

func NewGameRunner(opts Options) *GameRunner {
	if opts.Fallback.Depth < 1 {
		opts.Fallback = DefaultOptions().Fallback
	}
	return &GameRunner{
		board:      board.NewBoard(),
		solver:     search.NewSolver(),
		classifier: quality.NewClassifier(opts.Quality),
		opts:       opts,
	}
}

// Board returns a copy of the current position.
func (g *GameRunner) Board() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

// Reset starts a fresh game.
func (g *GameRunner) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.board.Reset()
}

// IsOver reports whether the game has ended.
func (g *GameRunner) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.IsTerminal()
}

// Winner returns the winning player, or Empty for a draw or a game still in
// progress.
func (g *GameRunner) Winner() board.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Winner()
}

// PlayHuman applies an externally chosen move for the player on turn and
// returns its quality verdict.
func (g *GameRunner) PlayHuman(ctx context.Context, col int) (quality.Quality, quality.Insight, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.board.IsTerminal() {
		return quality.Neutral, quality.Insight{}, search.ErrPositionTerminal
	}
	return g.play(ctx, col)
}

// PlayEngine searches for and applies the engine's move, using whatever
// configuration the thermal selector hands out for this move. Returns the
// column played.
func (g *GameRunner) PlayEngine(ctx context.Context) (int, quality.Quality, quality.Insight, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.board.IsTerminal() {
		return -1, quality.Neutral, quality.Insight{}, search.ErrPositionTerminal
	}

	cfg := g.opts.Fallback
	if g.opts.Selector != nil {
		cfg = g.opts.Selector.ConfigForMove()
	}
	log.Debug().
		Int("depth", cfg.Depth).
		Dur("time-budget", cfg.TimeBudget).
		Msg("engine-move-config")

	res, err := g.solver.FindBestMove(ctx, g.board.Clone(), cfg)
	if err != nil {
		return -1, quality.Neutral, quality.Insight{}, err
	}
	q, insight, err := g.play(ctx, res.Column)
	return res.Column, q, insight, err
}

// play classifies, applies and notifies. Caller holds the lock.
func (g *GameRunner) play(ctx context.Context, col int) (quality.Quality, quality.Insight, error) {
	player := g.board.OnTurn()
	before := g.board.Clone()

	q, insight, err := g.classifier.Classify(ctx, before, col, player)
	if err != nil {
		return quality.Neutral, quality.Insight{}, err
	}
	if err := g.board.Apply(col); err != nil {
		return quality.Neutral, quality.Insight{}, err
	}
	if g.opts.Sink != nil {
		if err := g.opts.Sink.MovePlayed(before, col, player, q, insight); err != nil {
			log.Error().Err(err).Int("column", col).Msg("narrative-sink-failed")
		}
	}
	return q, insight, nil
}
