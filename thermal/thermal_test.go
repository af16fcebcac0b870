package thermal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/search"
)

// fakeSensor returns scripted readings under a lock so tests can swap the
// value between samples.
type fakeSensor struct {
	mu      sync.Mutex
	reading float64
	err     error
}

func (f *fakeSensor) set(reading float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reading = reading
	f.err = err
}

func (f *fakeSensor) ReadTemperature(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reading, f.err
}

// selectorAt returns a selector whose monitor has just sampled the given
// reading.
func selectorAt(t *testing.T, sensor *fakeSensor) (*Monitor, *Selector) {
	t.Helper()
	m := NewMonitor(sensor, time.Hour) // ticker never fires during the test
	m.Start(context.Background())
	return m, NewSelector(m, DefaultThresholds, DefaultConfigTable())
}

func TestMonitorPublishesSample(t *testing.T) {
	is := is.New(t)
	sensor := &fakeSensor{reading: 55}
	m, _ := selectorAt(t, sensor)

	reading, ok := m.Latest()
	is.True(ok)
	is.Equal(reading, 55.0)
}

func TestMonitorReportsNoSampleOnFailure(t *testing.T) {
	is := is.New(t)
	sensor := &fakeSensor{err: ErrSensorUnavailable}
	m, _ := selectorAt(t, sensor)

	_, ok := m.Latest()
	is.True(!ok)
}

func TestSensorFailureFallsBackToConservativeConfig(t *testing.T) {
	is := is.New(t)
	sensor := &fakeSensor{err: ErrSensorUnavailable}
	_, sel := selectorAt(t, sensor)

	cfg := sel.ConfigForMove()
	table := DefaultConfigTable()
	is.Equal(cfg.Depth, table[Critical].Depth)
	is.Equal(cfg.Weights, eval.ReducedWeights)
	is.Equal(sel.Band(), Normal) // band untouched by a failed read
}

func TestBandTransitionsRequireMargin(t *testing.T) {
	is := is.New(t)
	sensor := &fakeSensor{reading: 50}
	m, sel := selectorAt(t, sensor)

	step := func(temp float64) search.Config {
		sensor.set(temp, nil)
		m.sample(context.Background())
		return sel.ConfigForMove()
	}

	// Hovering just past the 70° boundary, inside the 3° margin: no change.
	for _, temp := range []float64{69, 71, 69.5, 72, 70.5, 72.9} {
		step(temp)
		is.Equal(sel.Band(), Normal)
	}

	// Clearing the margin switches up.
	step(74)
	is.Equal(sel.Band(), Elevated)

	// Dropping back inside the margin does not switch down.
	for _, temp := range []float64{69, 68, 67.5} {
		step(temp)
		is.Equal(sel.Band(), Elevated)
	}
	step(66)
	is.Equal(sel.Band(), Normal)
}

// Across a temperature sequence that repeatedly crosses a threshold by small
// amounts, the selector must never hand out a deeper configuration while
// still inside the hysteresis margin of a just-triggered downward transition.
func TestNoOscillationAroundThreshold(t *testing.T) {
	is := is.New(t)
	sensor := &fakeSensor{reading: 90}
	m, sel := selectorAt(t, sensor)

	sensor.set(90, nil)
	m.sample(context.Background())
	first := sel.ConfigForMove()
	is.Equal(sel.Band(), Critical)

	lastDepth := first.Depth
	// Wobbles around the 85° boundary, all within the 3° margin of the
	// 82°C downward transition point.
	for _, temp := range []float64{84, 86, 83, 85.5, 82.5, 84.9} {
		sensor.set(temp, nil)
		m.sample(context.Background())
		cfg := sel.ConfigForMove()
		is.True(cfg.Depth <= lastDepth) // never deeper while hovering
		is.Equal(sel.Band(), Critical)
		lastDepth = cfg.Depth
	}

	// A genuine cool-down clears the margin and steps down exactly one band.
	sensor.set(81, nil)
	m.sample(context.Background())
	sel.ConfigForMove()
	is.Equal(sel.Band(), Elevated)
}

func TestStraightToCriticalOnBigJump(t *testing.T) {
	is := is.New(t)
	sensor := &fakeSensor{reading: 95}
	m, sel := selectorAt(t, sensor)

	m.sample(context.Background())
	sel.ConfigForMove()
	is.Equal(sel.Band(), Critical)
}

func TestConfigTableOrdering(t *testing.T) {
	is := is.New(t)
	table := DefaultConfigTable()
	is.True(table[Normal].Depth > table[Elevated].Depth)
	is.True(table[Elevated].Depth > table[Critical].Depth)
	is.True(table[Normal].TimeBudget > table[Critical].TimeBudget)
}
