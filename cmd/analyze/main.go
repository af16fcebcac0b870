// analyze evaluates a single position from a YAML file: it prints the
// engine's best move and a quality verdict for every legal reply.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fourmation/fourmation/config"
	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/quality"
	"github.com/fourmation/fourmation/search"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyze [-config file] position.yaml")
		os.Exit(2)
	}

	cfg := &config.Config{}
	if err := cfg.Load(*cfgPath); err != nil {
		log.Fatal().Err(err).Msg("config-load-failed")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Debug().Msg("Debug logging is on")

	b, err := loadPosition(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("position-load-failed")
	}
	fmt.Println(b)
	fmt.Printf("to move: %v\n\n", b.OnTurn())

	searchCfg := search.Config{
		Depth:      cfg.Depth,
		TimeBudget: time.Duration(cfg.TimeBudgetMs) * time.Millisecond,
		Weights:    eval.DefaultWeights,
	}
	ctx := context.Background()

	solver := search.NewSolver()
	res, err := solver.FindBestMove(ctx, b.Clone(), searchCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("search-failed")
	}
	fmt.Printf("best move: column %d (score %d, depth %d, %d nodes)\n\n",
		res.Column, res.Score, res.DepthReached, res.Nodes)

	classifier := quality.NewClassifier(quality.Options{
		Depth:       cfg.LimitedDepth,
		BadScoreGap: quality.DefaultOptions.BadScoreGap,
		Weights:     eval.DefaultWeights,
	})
	for _, col := range b.LegalColumns() {
		q, insight, err := classifier.Classify(ctx, b, col, b.OnTurn())
		if err != nil {
			log.Fatal().Err(err).Int("column", col).Msg("classify-failed")
		}
		fmt.Printf("column %d: %s%s\n", col, q, annotate(insight))
	}
}

func annotate(in quality.Insight) string {
	switch {
	case in.WonImmediately:
		return " (wins immediately)"
	case in.BlockedWin:
		return " (blocks a winning threat)"
	case in.IgnoredBlock:
		return " (ignores a winning threat)"
	}
	return ""
}
