package forecast

import "time"

const (
	// SampleWindow is the number of samples in the moving average.
	SampleWindow = 5

	// hPa difference to kPa.
	conversionFactor = 1.0 / 10.0

	firstMilestone = 5
	lastMilestone  = 185
	// After the last milestone the counter restarts here, never at zero,
	// so the 30-minute milestones keep their phase.
	restartMinute = 6
	// The reference average for the next cycle is taken here.
	referenceMinute = 125
	// No forecast before this minute in the warm-up cycle.
	firstRateMinute = 35
)

type phase uint8

const (
	warmUp phase = iota
	steady
)

// milestone is a minute at which the rate is recomputed. divisor[p] is the
// time in hours since the reference average was taken, in phase p.
type milestone struct {
	minute  int
	divisor [2]float64
}

var milestones = []milestone{
	{minute: 35, divisor: [2]float64{warmUp: 0.5, steady: 1.5}},
	{minute: 65, divisor: [2]float64{warmUp: 1, steady: 2}},
	{minute: 95, divisor: [2]float64{warmUp: 1.5, steady: 2.5}},
	{minute: 125, divisor: [2]float64{warmUp: 2, steady: 3}},
	{minute: 155, divisor: [2]float64{warmUp: 2.5, steady: 3.5}},
	{minute: 185, divisor: [2]float64{warmUp: 3, steady: 4}},
}

// Estimator tracks the pressure history needed for a forecast. The zero value
// is an estimator at the start of its warm-up cycle. An Estimator is not safe
// for concurrent use.
type Estimator struct {
	samples [SampleWindow]float64
	minute  int
	phase   phase

	reference     float64 // average at the start of the current cycle
	nextReference float64 // average at minute 125, used by the next cycle
	rate          float64 // kPa/h
}

// New returns an Estimator at the start of its warm-up cycle.
func New() *Estimator {
	return &Estimator{phase: warmUp}
}

// Sample records one pressure reading in hPa and returns the current
// forecast.
func (e *Estimator) Sample(pressure float64) Forecast {
	e.samples[e.minute%SampleWindow] = pressure
	e.minute++
	if e.minute > lastMilestone {
		e.minute = restartMinute
	}

	if e.minute == firstMilestone {
		e.reference = e.average()
	}
	for _, m := range milestones {
		if m.minute == e.minute {
			e.advance(m)
			break
		}
	}

	if e.phase == warmUp && e.minute < firstRateMinute {
		return Unknown
	}
	return classify(e.rate)
}

func (e *Estimator) advance(m milestone) {
	avg := e.average()
	e.rate = (avg - e.reference) * conversionFactor / m.divisor[e.phase]

	switch m.minute {
	case referenceMinute:
		e.nextReference = avg
	case lastMilestone:
		e.reference = e.nextReference
		e.phase = steady
	}
}

func (e *Estimator) average() float64 {
	var sum float64
	for _, s := range e.samples {
		sum += s
	}
	return sum / SampleWindow
}

// Rate returns the last computed pressure rate in kPa/h.
func (e *Estimator) Rate() float64 {
	return e.rate
}

// Minute returns the sample counter, which cycles through 6..185 after the
// first cycle.
func (e *Estimator) Minute() int {
	return e.minute
}

// WarmingUp reports whether the first three-hour cycle is still running.
func (e *Estimator) WarmingUp() bool {
	return e.phase == warmUp
}

// Observe samples pressure and returns the result stamped with at.
func (e *Estimator) Observe(pressure float64, at time.Time) Trend {
	f := e.Sample(pressure)
	return Trend{
		Forecast:  f,
		Rate:      e.rate,
		Pressure:  pressure,
		Minute:    e.minute,
		WarmingUp: e.phase == warmUp,
		Timestamp: at,
	}
}
