package thermal

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/search"
)

// Band is a discrete temperature range. Higher bands select cheaper search
// configurations.
type Band uint8

const (
	Normal Band = iota
	Elevated
	Critical
	numBands
)

func (b Band) String() string {
	switch b {
	case Normal:
		return "normal"
	case Elevated:
		return "elevated"
	case Critical:
		return "critical"
	}
	return "unknown"
}

// Thresholds define the band boundaries in degrees Celsius. Margin is the
// hysteresis: a reading must clear a boundary by Margin, in the direction of
// travel, before the band changes. This keeps the selector from flapping
// between configurations when the temperature hovers at a boundary.
type Thresholds struct {
	NormalMax   float64
	ElevatedMax float64
	Margin      float64
}

var DefaultThresholds = Thresholds{
	NormalMax:   70,
	ElevatedMax: 85,
	Margin:      3,
}

// ConfigTable maps each band to a search configuration, ordered from the
// most to the least expensive.
type ConfigTable [numBands]search.Config

func DefaultConfigTable() ConfigTable {
	return ConfigTable{
		Normal:   {Depth: 8, TimeBudget: 5 * time.Second, Weights: eval.DefaultWeights},
		Elevated: {Depth: 4, TimeBudget: 2 * time.Second, Weights: eval.DefaultWeights},
		Critical: {Depth: 2, TimeBudget: 1 * time.Second, Weights: eval.ReducedWeights},
	}
}

// Selector picks a search configuration per move from the monitor's latest
// temperature sample. The returned Config is a value: once handed out for a
// move it is never revised, so no band transition can affect a search in
// flight.
type Selector struct {
	monitor    *Monitor
	thresholds Thresholds
	table      ConfigTable

	mu   sync.Mutex
	band Band
}

func NewSelector(monitor *Monitor, thresholds Thresholds, table ConfigTable) *Selector {
	return &Selector{
		monitor:    monitor,
		thresholds: thresholds,
		table:      table,
	}
}

// Band returns the current thermal band.
func (s *Selector) Band() Band {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.band
}

// ConfigForMove returns the configuration for the next search. With no good
// sample available it falls back to the most conservative configuration
// (never the most expensive) and leaves the band untouched.
func (s *Selector) ConfigForMove() search.Config {
	temp, ok := s.monitor.Latest()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		log.Debug().Msg("no-temperature-sample-using-conservative-config")
		return s.table[Critical]
	}
	prev := s.band
	s.band = s.nextBand(prev, temp)
	if s.band != prev {
		log.Info().
			Float64("temperature", temp).
			Str("from", prev.String()).
			Str("to", s.band.String()).
			Msg("thermal-band-transition")
	}
	return s.table[s.band]
}

func (s *Selector) nextBand(cur Band, temp float64) Band {
	t := s.thresholds
	switch cur {
	case Normal:
		if temp > t.ElevatedMax+t.Margin {
			return Critical
		}
		if temp > t.NormalMax+t.Margin {
			return Elevated
		}
	case Elevated:
		if temp > t.ElevatedMax+t.Margin {
			return Critical
		}
		if temp < t.NormalMax-t.Margin {
			return Normal
		}
	case Critical:
		if temp < t.NormalMax-t.Margin {
			return Normal
		}
		if temp < t.ElevatedMax-t.Margin {
			return Elevated
		}
	}
	return cur
}
