// Package threshold decides, on every poll, which registered sensors are due
// for a measurement and whether a measured value is sent to the collector.
//
// A value is sent when it differs from the last sent value by at least the
// sensor's threshold, or when ForcedInterval measurements have passed without
// a report. Sensors are registered once at startup and never removed.
package threshold

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrZeroReadingInterval = errors.New("reading interval must be at least one second")
	ErrInvalidThreshold    = errors.New("threshold must be a non-negative number")
)

// Registry holds the registered sensors in registration order. It is not safe
// for concurrent use: one goroutine registers and polls.
type Registry struct {
	clock   Clock
	sensors []Sensor
}

// NewRegistry returns an empty registry reading time from clock. A nil clock
// selects SystemClock.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock()
	}
	return &Registry{clock: clock}
}

// Register appends a sensor. It is due for its first measurement on the next
// poll.
func (r *Registry) Register(cfg SensorConfig) error {
	if cfg.ReadingInterval == 0 {
		return fmt.Errorf("sensor %d (%s): %w", cfg.SensorID, cfg.Kind, ErrZeroReadingInterval)
	}
	if math.IsNaN(cfg.Threshold) || cfg.Threshold < 0 {
		return fmt.Errorf("sensor %d (%s): %w", cfg.SensorID, cfg.Kind, ErrInvalidThreshold)
	}

	// Measurements starts at zero so the first forced report lands on the
	// ForcedInterval-th measurement, not the first one.
	r.sensors = append(r.sensors, Sensor{
		SensorConfig: cfg,
		NextDue:      r.clock.Millis(),
	})
	return nil
}

// Len returns the number of registered sensors.
func (r *Registry) Len() int {
	return len(r.sensors)
}

// Sensors returns a copy of every registered sensor in registration order.
func (r *Registry) Sensors() []Sensor {
	out := make([]Sensor, len(r.sensors))
	copy(out, r.sensors)
	return out
}
