package threshold

import "time"

// Clock supplies monotonic milliseconds since an arbitrary epoch.
type Clock interface {
	Millis() uint64
}

// ValueProvider measures the current value of a sensor. It is called from
// inside Poll and must return promptly.
type ValueProvider interface {
	Value(sensorID uint8, kind Kind) (float64, error)
}

// Sink delivers a report to a collector. Delivery is fire-and-forget.
type Sink interface {
	Transmit(r Report)
}

// ValueProviderFunc adapts a function to ValueProvider.
type ValueProviderFunc func(sensorID uint8, kind Kind) (float64, error)

func (f ValueProviderFunc) Value(sensorID uint8, kind Kind) (float64, error) {
	return f(sensorID, kind)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r Report)

func (f SinkFunc) Transmit(r Report) {
	f(r)
}

type systemClock struct {
	start time.Time
}

// SystemClock returns a Clock counting milliseconds from the moment it was
// created. time.Since uses the monotonic clock reading.
func SystemClock() Clock {
	return systemClock{start: time.Now()}
}

func (c systemClock) Millis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}
