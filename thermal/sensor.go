// Package thermal adapts search effort to the machine's temperature. A
// periodic monitor samples an injectable sensor; a band selector with
// hysteresis maps the latest sample to a search configuration.
package thermal

import (
	"context"
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

var ErrSensorUnavailable = errors.New("temperature sensor unavailable")

// Sensor reads one temperature sample in degrees Celsius. Implementations
// may be slow or flaky; the monitor isolates callers from both.
type Sensor interface {
	ReadTemperature(ctx context.Context) (float64, error)
}

// cpuSensorPrefixes identify CPU temperature sensors across platforms.
var cpuSensorPrefixes = []string{"cpu", "core", "k10temp", "coretemp"}

// HostSensor reads the CPU temperature of the local machine.
type HostSensor struct{}

func (HostSensor) ReadTemperature(ctx context.Context) (float64, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if err != nil || len(temps) == 0 {
		return 0, ErrSensorUnavailable
	}

	// Prefer the hottest CPU core; fall back to the hottest sensor of any
	// kind if none of the keys look CPU-like.
	hottestCPU, hottestAny := 0.0, 0.0
	foundCPU := false
	for _, t := range temps {
		if t.Temperature > hottestAny {
			hottestAny = t.Temperature
		}
		key := strings.ToLower(t.SensorKey)
		for _, prefix := range cpuSensorPrefixes {
			if strings.HasPrefix(key, prefix) {
				foundCPU = true
				if t.Temperature > hottestCPU {
					hottestCPU = t.Temperature
				}
				break
			}
		}
	}
	if foundCPU {
		return hottestCPU, nil
	}
	return hottestAny, nil
}

// SensorFunc adapts a function to the Sensor interface; tests use it for
// deterministic fake readings.
type SensorFunc func(ctx context.Context) (float64, error)

func (f SensorFunc) ReadTemperature(ctx context.Context) (float64, error) {
	return f(ctx)
}
