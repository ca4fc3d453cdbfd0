package threshold

import "fmt"

// Kind is the type of value a registered sensor reports. Multi-purpose devices
// register once per Kind under the same sensor id.
type Kind uint8

const (
	Temperature Kind = iota
	Humidity
	LightLevel
	Custom
	Pressure
)

var kindNames = [...]string{
	Temperature: "temperature",
	Humidity:    "humidity",
	LightLevel:  "light",
	Custom:      "custom",
	Pressure:    "pressure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText makes Kind render as its name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SensorConfig is the setup-time configuration of one sensor.
type SensorConfig struct {
	// GroupID is passed through to the sink untouched.
	GroupID  uint8
	SensorID uint8
	Kind     Kind
	// Threshold is the minimum absolute change from the last reported value
	// that triggers an immediate report.
	Threshold float64
	// ReadingInterval is the spacing between measurements, in seconds.
	ReadingInterval uint8
	// ForcedInterval is the number of measurements after which a report is
	// sent even when the threshold was never crossed. Zero disables forced
	// reports.
	ForcedInterval uint8
}

// Sensor is a registered sensor: its configuration plus scheduling and
// reporting state.
type Sensor struct {
	SensorConfig

	// Measurements counts measurements since the last report.
	Measurements int
	// LastReported is the value most recently sent, not most recently measured.
	LastReported float64
	// NextDue is the clock reading, in milliseconds, at which the sensor is
	// measured next.
	NextDue uint64
}

func (s *Sensor) forcedReportDue() bool {
	return s.ForcedInterval > 0 && s.Measurements == int(s.ForcedInterval)
}

// Report is what a Sink receives when a sensor value is sent.
type Report struct {
	GroupID  uint8   `json:"group_id"`
	SensorID uint8   `json:"sensor_id"`
	Kind     Kind    `json:"kind"`
	Value    float64 `json:"value"`
}
