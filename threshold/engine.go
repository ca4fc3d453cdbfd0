package threshold

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/Uranury/sensornode/internal/log"
)

// Poll measures every due sensor and transmits the values that warrant a
// report. The clock is read once; every sensor in the batch is judged against
// the same tick time.
//
// A failed read does not count as a measurement and produces no report, but
// the sensor still waits a full reading interval before it is tried again.
// Poll visits every due sensor and returns the combined read errors.
func (r *Registry) Poll(provider ValueProvider, sink Sink) error {
	now := r.clock.Millis()

	var errs error
	for i := range r.sensors {
		if err := check(&r.sensors[i], now, provider, sink); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func check(s *Sensor, now uint64, provider ValueProvider, sink Sink) error {
	if s.NextDue > now {
		return nil
	}

	s.Measurements++
	value, err := provider.Value(s.SensorID, s.Kind)
	s.NextDue = now + uint64(s.ReadingInterval)*1000
	if err != nil {
		s.Measurements--
		log.Warnw("sensor read failed", "sensor", s.SensorID, "kind", s.Kind, "error", err)
		return fmt.Errorf("read sensor %d (%s): %w", s.SensorID, s.Kind, err)
	}

	delta := math.Abs(s.LastReported - value)
	if delta >= s.Threshold || s.forcedReportDue() {
		report(s, value, delta, sink)
	}
	return nil
}

func report(s *Sensor, value, delta float64, sink Sink) {
	log.Debugw("reporting sensor value",
		"sensor", s.SensorID,
		"kind", s.Kind,
		"value", value,
		"delta", delta,
		"measurements", s.Measurements,
	)
	s.LastReported = value
	s.Measurements = 0
	sink.Transmit(Report{
		GroupID:  s.GroupID,
		SensorID: s.SensorID,
		Kind:     s.Kind,
		Value:    s.LastReported,
	})
}
