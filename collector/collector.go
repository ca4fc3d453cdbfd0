// Package collector holds the destinations for sensor reports and forecast
// updates: InfluxDB, websocket clients and an in-memory latest-value store.
package collector

import (
	"github.com/Uranury/sensornode/forecast"
	"github.com/Uranury/sensornode/threshold"
)

// TrendSink receives every forecast update.
type TrendSink interface {
	PublishTrend(t forecast.Trend)
}

// Collector accepts both sensor reports and forecast updates.
type Collector interface {
	threshold.Sink
	TrendSink
}

// Fanout forwards to every collector in order.
type Fanout []Collector

func (f Fanout) Transmit(r threshold.Report) {
	for _, c := range f {
		c.Transmit(r)
	}
}

func (f Fanout) PublishTrend(t forecast.Trend) {
	for _, c := range f {
		c.PublishTrend(t)
	}
}
