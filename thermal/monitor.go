package thermal

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSampleInterval = 5 * time.Second

	// readAttempts and readDelay bound how hard one sampling tick tries
	// before giving up until the next tick.
	readAttempts = 3
	readDelay    = 100 * time.Millisecond
)

// Monitor samples a Sensor on its own cadence, decoupled from move requests.
// Latest never blocks: a slow or dead sensor only means the last good sample
// goes stale and eventually reads as absent.
type Monitor struct {
	sensor   Sensor
	interval time.Duration

	mu        sync.Mutex
	latest    float64
	hasSample bool
}

func NewMonitor(sensor Sensor, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Monitor{sensor: sensor, interval: interval}
}

// Start launches the sampling loop and returns immediately. The loop stops
// when ctx is cancelled. Start samples once synchronously so a selector
// consulted right away has a reading to work with when the sensor is healthy.
func (m *Monitor) Start(ctx context.Context) {
	m.sample(ctx)
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sample(ctx)
			}
		}
	}()
}

func (m *Monitor) sample(ctx context.Context) {
	reading, err := retry.DoWithData(
		func() (float64, error) { return m.sensor.ReadTemperature(ctx) },
		retry.Context(ctx),
		retry.Attempts(readAttempts),
		retry.Delay(readDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Debug().Err(err).Msg("temperature-read-failed")
		m.mu.Lock()
		m.hasSample = false
		m.mu.Unlock()
		return
	}
	m.mu.Lock()
	m.latest = reading
	m.hasSample = true
	m.mu.Unlock()
}

// Latest returns the most recent good sample. ok is false when the sensor
// has never responded or its last read failed.
func (m *Monitor) Latest() (reading float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.hasSample
}
