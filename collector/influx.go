package collector

import (
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Uranury/sensornode/forecast"
	"github.com/Uranury/sensornode/internal/log"
	"github.com/Uranury/sensornode/threshold"
)

const (
	readingMeasurement  = "sensor_data"
	forecastMeasurement = "pressure_trend"
)

// Influx writes reports and trends to an InfluxDB bucket through the
// non-blocking write API.
type Influx struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	done     chan struct{}

	// Written by drainErrors, read by Close once done is closed.
	failed   int
	firstErr error
}

func NewInflux(url, token, org, bucket string) *Influx {
	client := influxdb2.NewClient(url, token)
	return newInflux(client, client.WriteAPI(org, bucket))
}

func newInflux(client influxdb2.Client, writeAPI api.WriteAPI) *Influx {
	i := &Influx{
		client:   client,
		writeAPI: writeAPI,
		done:     make(chan struct{}),
	}
	go i.drainErrors(writeAPI.Errors())
	return i
}

// drainErrors runs until the client is closed, which closes errs.
func (i *Influx) drainErrors(errs <-chan error) {
	defer close(i.done)
	for err := range errs {
		log.Errorw("influx write failed", "error", err)
		if i.failed == 0 {
			i.firstErr = err
		}
		i.failed++
	}
}

func (i *Influx) Transmit(r threshold.Report) {
	i.writeAPI.WritePoint(readingPoint(r, time.Now()))
}

func (i *Influx) PublishTrend(t forecast.Trend) {
	i.writeAPI.WritePoint(trendPoint(t))
}

// Close flushes pending points. If any write failed it returns the first
// failure along with the number of failed writes.
func (i *Influx) Close() error {
	i.writeAPI.Flush()
	i.client.Close()
	<-i.done
	if i.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d influx writes failed, first: %w", i.failed, i.firstErr)
}

func readingPoint(r threshold.Report, at time.Time) *write.Point {
	return influxdb2.NewPointWithMeasurement(readingMeasurement).
		AddTag("group", strconv.Itoa(int(r.GroupID))).
		AddTag("sensor", strconv.Itoa(int(r.SensorID))).
		AddTag("kind", r.Kind.String()).
		AddField("value", r.Value).
		SetTime(at)
}

func trendPoint(t forecast.Trend) *write.Point {
	return influxdb2.NewPointWithMeasurement(forecastMeasurement).
		AddTag("forecast", t.Forecast.String()).
		AddField("rate", t.Rate).
		AddField("pressure", t.Pressure).
		AddField("minute", t.Minute).
		AddField("warming_up", t.WarmingUp).
		SetTime(t.Timestamp)
}
