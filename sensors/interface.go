// Package sensors reads the node's attached devices and serves their values to
// the threshold engine.
package sensors

import "time"

// Field names used in SensorData.Fields.
const (
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldPressure    = "pressure"
	FieldLight       = "light"
)

type SensorData struct {
	SensorType string             `json:"sensor_type"`
	Fields     map[string]float64 `json:"fields"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Sensor interface that all sensors must implement
type Sensor interface {
	Read() (*SensorData, error)
	Name() string
}
