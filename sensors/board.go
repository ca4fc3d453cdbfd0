package sensors

import (
	"errors"
	"fmt"
	"time"

	"github.com/Uranury/sensornode/threshold"
)

var (
	ErrUnknownSensor = errors.New("no device attached")
	ErrMissingField  = errors.New("device does not report field")
)

// fieldFor names the SensorData field that carries a Kind.
func fieldFor(kind threshold.Kind) string {
	switch kind {
	case threshold.Temperature:
		return FieldTemperature
	case threshold.Humidity:
		return FieldHumidity
	case threshold.LightLevel:
		return FieldLight
	case threshold.Pressure:
		return FieldPressure
	default:
		return kind.String()
	}
}

type cached struct {
	data *SensorData
	at   time.Time
}

// Board maps sensor ids to attached devices and serves their values to the
// threshold engine. A device that reports several fields is read at most
// once per MaxAge, so registering temperature and humidity for one DHT22
// costs one bus transaction per poll.
type Board struct {
	MaxAge time.Duration

	devices map[uint8]Sensor
	cache   map[uint8]cached
	now     func() time.Time
}

func NewBoard(maxAge time.Duration) *Board {
	return &Board{
		MaxAge:  maxAge,
		devices: make(map[uint8]Sensor),
		cache:   make(map[uint8]cached),
		now:     time.Now,
	}
}

// Attach binds a device to a sensor id, replacing any previous binding.
func (b *Board) Attach(sensorID uint8, s Sensor) {
	b.devices[sensorID] = s
	delete(b.cache, sensorID)
}

// Value implements threshold.ValueProvider.
func (b *Board) Value(sensorID uint8, kind threshold.Kind) (float64, error) {
	data, err := b.read(sensorID)
	if err != nil {
		return 0, err
	}

	field := fieldFor(kind)
	v, ok := data.Fields[field]
	if !ok {
		return 0, fmt.Errorf("%s: %w %q", data.SensorType, ErrMissingField, field)
	}
	return v, nil
}

func (b *Board) read(sensorID uint8) (*SensorData, error) {
	dev, ok := b.devices[sensorID]
	if !ok {
		return nil, fmt.Errorf("sensor %d: %w", sensorID, ErrUnknownSensor)
	}

	now := b.now()
	if c, ok := b.cache[sensorID]; ok && now.Sub(c.at) < b.MaxAge {
		return c.data, nil
	}

	data, err := dev.Read()
	if err != nil {
		delete(b.cache, sensorID)
		return nil, fmt.Errorf("%s: %w", dev.Name(), err)
	}
	b.cache[sensorID] = cached{data: data, at: now}
	return data, nil
}
