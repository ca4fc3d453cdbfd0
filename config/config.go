// Package config reads the node configuration from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Uranury/sensornode/threshold"
)

// Influx holds the InfluxDB connection settings. The InfluxDB collector is
// only enabled when both URL and Bucket are set.
type Influx struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

func (i Influx) Enabled() bool {
	return i.URL != "" && i.Bucket != ""
}

// Reporting is the threshold configuration shared by every sensor of a kind.
type Reporting struct {
	Threshold       float64
	ReadingInterval uint8
	ForcedInterval  uint8
}

type Config struct {
	Debug    bool
	HTTPAddr string
	Influx   Influx

	// PollInterval is how often the engine checks for due sensors.
	PollInterval time.Duration
	// PressureInterval is the trend estimator cadence; the forecast
	// schedule assumes one minute.
	PressureInterval time.Duration

	// DHTPin is the GPIO pin of the DHT22. Empty disables it.
	DHTPin string

	Reporting map[threshold.Kind]Reporting
}

var defaultReporting = map[threshold.Kind]Reporting{
	threshold.Temperature: {Threshold: 0.5, ReadingInterval: 30, ForcedInterval: 20},
	threshold.Humidity:    {Threshold: 2, ReadingInterval: 30, ForcedInterval: 20},
	threshold.Pressure:    {Threshold: 0.5, ReadingInterval: 60, ForcedInterval: 10},
	threshold.LightLevel:  {Threshold: 50, ReadingInterval: 10, ForcedInterval: 60},
}

// Load reads .env from the working directory if it exists and then the
// process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults for unset keys.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	e := env{lookup: lookup}

	cfg := &Config{
		Debug:    e.bool("DEBUG", false),
		HTTPAddr: e.string("HTTP_ADDR", ":8080"),
		Influx: Influx{
			URL:    e.string("INFLUX_URL", ""),
			Token:  e.string("INFLUX_TOKEN", ""),
			Org:    e.string("INFLUX_ORG", ""),
			Bucket: e.string("INFLUX_BUCKET", ""),
		},
		PollInterval:     e.duration("POLL_INTERVAL", 250*time.Millisecond),
		PressureInterval: e.duration("PRESSURE_SAMPLE_INTERVAL", time.Minute),
		DHTPin:           e.string("DHT_PIN", "GPIO4"),
		Reporting:        make(map[threshold.Kind]Reporting, len(defaultReporting)),
	}

	for kind, def := range defaultReporting {
		prefix := envPrefix(kind)
		cfg.Reporting[kind] = Reporting{
			Threshold:       e.float(prefix+"_THRESHOLD", def.Threshold),
			ReadingInterval: e.uint8(prefix+"_READING_INTERVAL", def.ReadingInterval),
			ForcedInterval:  e.uint8(prefix+"_FORCED_INTERVAL", def.ForcedInterval),
		}
	}

	if e.err != nil {
		return nil, e.err
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.PressureInterval <= 0 {
		return nil, fmt.Errorf("PRESSURE_SAMPLE_INTERVAL must be positive, got %s", cfg.PressureInterval)
	}
	return cfg, nil
}

func envPrefix(kind threshold.Kind) string {
	switch kind {
	case threshold.Temperature:
		return "TEMPERATURE"
	case threshold.Humidity:
		return "HUMIDITY"
	case threshold.Pressure:
		return "PRESSURE"
	case threshold.LightLevel:
		return "LIGHT"
	default:
		return "CUSTOM"
	}
}
