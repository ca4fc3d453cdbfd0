// Package forecast classifies the barometric pressure trend into a short-term
// weather forecast, following Freescale application note AN3914.
//
// The Estimator expects one pressure sample (hPa) per minute. It keeps a
// five-sample moving average and, every 30 minutes, turns the change against a
// reference average into a rate in kPa/h. The first three hours use a shorter
// time base than every later cycle.
package forecast

import (
	"fmt"
	"time"
)

// Forecast is the classification of the current pressure rate.
type Forecast uint8

const (
	Stable Forecast = iota
	Sunny
	Cloudy
	Unstable
	Thunderstorm
	Unknown
)

var labels = [...]string{
	Stable:       "stable",
	Sunny:        "sunny",
	Cloudy:       "cloudy",
	Unstable:     "unstable",
	Thunderstorm: "thunderstorm",
	Unknown:      "unknown",
}

func (f Forecast) String() string {
	if int(f) < len(labels) {
		return labels[f]
	}
	return fmt.Sprintf("forecast(%d)", uint8(f))
}

// MarshalText makes Forecast render as its label in JSON.
func (f Forecast) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Trend is one estimator result as published to collectors.
type Trend struct {
	Forecast  Forecast  `json:"forecast"`
	Rate      float64   `json:"rate_kpa_h"`
	Pressure  float64   `json:"pressure_hpa"`
	Minute    int       `json:"minute"`
	WarmingUp bool      `json:"warming_up"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	stormRate  = 0.25 // kPa/h
	stableRate = 0.05 // kPa/h
)

// classify maps a rate of change in kPa/h to a forecast. Rates exactly on a
// band edge are Unknown.
func classify(rate float64) Forecast {
	switch {
	case rate < -stormRate:
		return Thunderstorm
	case rate > stormRate:
		return Unstable
	case rate > -stormRate && rate < -stableRate:
		return Cloudy
	case rate > stableRate && rate < stormRate:
		return Sunny
	case rate > -stableRate && rate < stableRate:
		return Stable
	default:
		return Unknown
	}
}
