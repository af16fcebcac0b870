package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fourmation/fourmation/board"
	"github.com/fourmation/fourmation/validator"
)

// positionFile is the YAML layout accepted by the analyzer: six rows of
// seven characters ('.', 'X', 'O'), top row first, plus the player to move.
type positionFile struct {
	Grid   []string `yaml:"grid"`
	OnTurn string   `yaml:"on_turn"`
}

func loadPosition(path string) (*board.Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf positionFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse position: %w", err)
	}
	return pf.toBoard()
}

func (pf *positionFile) toBoard() (*board.Board, error) {
	if len(pf.Grid) != board.NumRows {
		return nil, fmt.Errorf("position has %d rows, want %d", len(pf.Grid), board.NumRows)
	}

	var grid validator.Grid
	for row, line := range pf.Grid {
		if len(line) != board.NumCols {
			return nil, fmt.Errorf("row %d has %d cells, want %d", row, len(line), board.NumCols)
		}
		for col, ch := range line {
			switch ch {
			case '.':
			case 'X':
				grid[row][col] = board.PlayerOne
			case 'O':
				grid[row][col] = board.PlayerTwo
			default:
				return nil, fmt.Errorf("row %d col %d: unknown cell %q", row, col, ch)
			}
		}
	}
	if report := validator.New().CheckGrid(grid); !report.Satisfiable {
		return nil, fmt.Errorf("position invalid: %w", report.Err())
	}
	// The rebuild below replays pieces column by column, so the board's
	// last-move win detection cannot be trusted to spot a run laid down in
	// a different order. Scan the whole grid instead and refuse positions
	// that are already decided; there is nothing left to analyze.
	for _, p := range []board.Player{board.PlayerOne, board.PlayerTwo} {
		if validator.HasFour(grid, p) {
			return nil, fmt.Errorf("position already won by %v", p)
		}
	}

	// Rebuild through the board's own move machinery: each column is filled
	// bottom-up, forcing the owning player onto the turn before the drop.
	b := board.NewBoard()
	for col := 0; col < board.NumCols; col++ {
		for row := board.NumRows - 1; row >= 0; row-- {
			p := grid[row][col]
			if p == board.Empty {
				break
			}
			b.SetOnTurn(p)
			if err := b.Apply(col); err != nil {
				return nil, fmt.Errorf("rebuild column %d: %w", col, err)
			}
		}
	}

	onTurn, err := parsePlayer(pf.OnTurn)
	if err != nil {
		return nil, err
	}
	b.SetOnTurn(onTurn)
	return b, nil
}

func parsePlayer(s string) (board.Player, error) {
	switch s {
	case "X", "x", "":
		return board.PlayerOne, nil
	case "O", "o":
		return board.PlayerTwo, nil
	}
	return board.Empty, fmt.Errorf("unknown player %q", s)
}
