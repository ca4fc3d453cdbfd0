package collector

import (
	"sort"
	"sync"
	"time"

	"github.com/Uranury/sensornode/forecast"
	"github.com/Uranury/sensornode/threshold"
)

// Reading is the last report seen for one sensor and kind.
type Reading struct {
	threshold.Report
	Timestamp time.Time `json:"timestamp"`
}

type readingKey struct {
	sensorID uint8
	kind     threshold.Kind
}

// Latest keeps the newest report per sensor and kind plus the newest trend.
// It is written by the node loop and read by HTTP handlers.
type Latest struct {
	mu       sync.RWMutex
	readings map[readingKey]Reading
	trend    *forecast.Trend
	now      func() time.Time
}

func NewLatest() *Latest {
	return &Latest{
		readings: make(map[readingKey]Reading),
		now:      time.Now,
	}
}

func (l *Latest) Transmit(r threshold.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readings[readingKey{r.SensorID, r.Kind}] = Reading{Report: r, Timestamp: l.now()}
}

func (l *Latest) PublishTrend(t forecast.Trend) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trend = &t
}

// Readings returns the stored readings ordered by sensor id, then kind.
func (l *Latest) Readings() []Reading {
	l.mu.RLock()
	out := make([]Reading, 0, len(l.readings))
	for _, r := range l.readings {
		out = append(out, r)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SensorID != out[j].SensorID {
			return out[i].SensorID < out[j].SensorID
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Trend returns the newest trend, if any has been published.
func (l *Latest) Trend() (forecast.Trend, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.trend == nil {
		return forecast.Trend{}, false
	}
	return *l.trend, true
}
