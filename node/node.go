// Package node runs the sensor node's control loop.
package node

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/Uranury/sensornode/collector"
	"github.com/Uranury/sensornode/forecast"
	"github.com/Uranury/sensornode/internal/log"
	"github.com/Uranury/sensornode/threshold"
)

// Node drives the threshold engine and the pressure trend estimator from a
// single goroutine, so neither needs locking.
type Node struct {
	Registry *threshold.Registry
	Provider threshold.ValueProvider
	Sink     collector.Collector

	Estimator *forecast.Estimator
	// Pressure reads the barometer for the estimator. Nil disables the
	// forecast.
	Pressure func() (float64, error)

	PollInterval     time.Duration
	PressureInterval time.Duration

	now func() time.Time
}

// Run polls until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	if n.now == nil {
		n.now = time.Now
	}

	poll := time.NewTicker(n.PollInterval)
	defer poll.Stop()

	var pressure <-chan time.Time
	if n.Pressure != nil {
		t := time.NewTicker(n.PressureInterval)
		defer t.Stop()
		pressure = t.C
		n.samplePressure()
	}

	log.Infow("node started",
		"sensors", n.Registry.Len(),
		"poll_interval", n.PollInterval,
		"forecast", n.Pressure != nil,
	)
	n.poll()

	for {
		select {
		case <-ctx.Done():
			log.Infof("node stopping: %v", context.Cause(ctx))
			return nil
		case <-poll.C:
			n.poll()
		case <-pressure:
			n.samplePressure()
		}
	}
}

func (n *Node) poll() {
	if err := n.Registry.Poll(n.Provider, n.Sink); err != nil {
		log.Debugw("poll finished with read errors", "failed", len(multierr.Errors(err)))
	}
}

func (n *Node) samplePressure() {
	p, err := n.Pressure()
	if err != nil {
		log.Warnw("pressure sample failed", "error", err)
		return
	}

	trend := n.Estimator.Observe(p, n.now())
	log.Infow("pressure trend",
		"pressure", p,
		"rate", trend.Rate,
		"minute", trend.Minute,
		"forecast", trend.Forecast,
	)
	n.Sink.PublishTrend(trend)
}
