package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/eval"
)

// infinity sits beyond any depth-adjusted terminal score.
const infinity = eval.WinScore * 2

// Solver runs minimax searches. A Solver is reusable across moves but not
// safe for concurrent searches; the engine runs exactly one decision at a
// time (see the runner).
type Solver struct {
	pruning            bool
	iterativeDeepening bool
	nodes              atomic.Uint64
}

func NewSolver() *Solver {
	return &Solver{
		pruning:            true,
		iterativeDeepening: true,
	}
}

// SetPruning toggles alpha-beta cutoffs. Pruning never changes the computed
// optimum; turning it off exists so tests can compare against plain minimax.
func (s *Solver) SetPruning(on bool) {
	s.pruning = on
}

// SetIterativeDeepening toggles deepening from ply 1. With it off, the solver
// searches the configured depth directly.
func (s *Solver) SetIterativeDeepening(on bool) {
	s.iterativeDeepening = on
}

// Nodes reports the node count of the last search.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// FindBestMove searches b for the player on turn and returns the chosen
// column with its alpha-beta-bounded value at the depth actually reached.
// The live board is never touched; all speculation happens on clones.
//
// Cancellation (via ctx or cfg.TimeBudget) is not an error: the result from
// the deepest fully-searched ply is returned, so the caller always gets a
// legal move within the budget.
func (s *Solver) FindBestMove(ctx context.Context, b *board.Board, cfg Config) (Result, error) {
	if b.IsTerminal() {
		return Result{Column: -1}, ErrPositionTerminal
	}
	if cfg.Depth < 1 {
		return Result{Column: -1}, fmt.Errorf("%w: got %d", ErrBadDepth, cfg.Depth)
	}
	maxDepth := cfg.Depth
	if maxDepth > MaxDepth {
		log.Warn().Int("depth", cfg.Depth).Int("clamped", MaxDepth).Msg("clamping-search-depth")
		maxDepth = MaxDepth
	}
	if cfg.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeBudget)
		defer cancel()
	}

	s.nodes.Store(0)
	tstart := time.Now()

	g := &errgroup.Group{}
	done := make(chan struct{})

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	var res Result
	g.Go(func() error {
		res = s.deepen(ctx, b.Clone(), maxDepth, cfg.Weights)
		close(done)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{Column: -1}, err
	}

	log.Debug().
		Int("column", res.Column).
		Int("score", res.Score).
		Int("depth-reached", res.DepthReached).
		Uint64("nodes", res.Nodes).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("search-returning")
	return res, nil
}

// deepen searches plies 1..maxDepth, keeping the best result of the deepest
// ply that ran to completion. An interrupted ply is discarded unless no ply
// completed at all, in which case its partial best is still a legal column.
func (s *Solver) deepen(ctx context.Context, b *board.Board, maxDepth int, w eval.Weights) Result {
	perspective := b.OnTurn()
	start := 1
	if !s.iterativeDeepening {
		start = maxDepth
	}

	var best Result
	completed := false
	for d := start; d <= maxDepth; d++ {
		res, err := s.searchRoot(ctx, b, d, perspective, w)
		if err != nil {
			if !completed {
				best = res
			}
			log.Debug().Int("ply", d).Msg("search-cancelled-returning-best-so-far")
			break
		}
		res.DepthReached = d
		best = res
		completed = true
		log.Debug().Int("ply", d).Int("column", res.Column).Int("score", res.Score).Msg("deepening-iteratively")
		if res.Score >= eval.WinScore {
			// Forced win found; deeper plies cannot improve on it.
			break
		}
	}
	best.Nodes = s.nodes.Load()
	return best
}

// searchRoot evaluates every legal root move at the given depth. Ties are
// broken by exploration order: the first move reaching the best score wins.
func (s *Solver) searchRoot(ctx context.Context, b *board.Board, depth int, perspective board.Player, w eval.Weights) (Result, error) {
	α, β := -infinity, infinity
	best := Result{Column: -1, Score: -infinity}

	for _, col := range ColumnOrder {
		child := b.Clone()
		if err := child.Apply(col); err != nil {
			continue // column full
		}
		if best.Column == -1 {
			// Guarantees a legal column even if we are cancelled before any
			// child finishes.
			best.Column = col
		}
		score, err := s.minimax(ctx, child, depth-1, α, β, false, perspective, w)
		if err != nil {
			return best, err
		}
		if score > best.Score {
			best.Score = score
			best.Column = col
		}
		if s.pruning && best.Score > α {
			α = best.Score
		}
	}
	return best, nil
}

// EvaluateMove scores a single root move at cfg.Depth from the perspective
// of the player on turn, under the same algorithm and ordering as
// FindBestMove. Move-quality classification uses this to measure how far a
// played column falls short of the best one.
func (s *Solver) EvaluateMove(ctx context.Context, b *board.Board, col int, cfg Config) (int, error) {
	if b.IsTerminal() {
		return 0, ErrPositionTerminal
	}
	if cfg.Depth < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrBadDepth, cfg.Depth)
	}
	child := b.Clone()
	if err := child.Apply(col); err != nil {
		return 0, err
	}
	return s.minimax(ctx, child, cfg.Depth-1, -infinity, infinity, false, b.OnTurn(), cfg.Weights)
}

// minimax is the recursive core. Terminal checks run before the depth check,
// so a decided descendant never expands further no matter how much depth
// budget remains. Terminal values are adjusted by remaining depth: quicker
// wins (and slower losses) score better.
func (s *Solver) minimax(ctx context.Context, b *board.Board, depth, α, β int, maximizing bool, perspective board.Player, w eval.Weights) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes.Add(1)

	if winner := b.Winner(); winner != board.Empty {
		if winner == perspective {
			return eval.WinScore + depth, nil
		}
		return -eval.WinScore - depth, nil
	}
	if b.Full() {
		return 0, nil
	}
	if depth == 0 {
		return eval.Score(b, perspective, w), nil
	}

	if maximizing {
		best := -infinity
		for _, col := range ColumnOrder {
			child := b.Clone()
			if err := child.Apply(col); err != nil {
				continue
			}
			v, err := s.minimax(ctx, child, depth-1, α, β, false, perspective, w)
			if err != nil {
				return best, err
			}
			if v > best {
				best = v
			}
			if s.pruning {
				if best > α {
					α = best
				}
				if α >= β {
					break // beta cut-off
				}
			}
		}
		return best, nil
	}

	best := infinity
	for _, col := range ColumnOrder {
		child := b.Clone()
		if err := child.Apply(col); err != nil {
			continue
		}
		v, err := s.minimax(ctx, child, depth-1, α, β, true, perspective, w)
		if err != nil {
			return best, err
		}
		if v < best {
			best = v
		}
		if s.pruning {
			if best < β {
				β = best
			}
			if α >= β {
				break // alpha cut-off
			}
		}
	}
	return best, nil
}
