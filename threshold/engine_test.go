package threshold

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now uint64
}

func (c *fakeClock) Millis() uint64 { return c.now }

func (c *fakeClock) advance(ms uint64) { c.now += ms }

type recorder struct {
	reports []Report
}

func (r *recorder) Transmit(rep Report) { r.reports = append(r.reports, rep) }

// sequence returns a provider yielding values in order and counting calls.
func sequence(values ...float64) (ValueProvider, *int) {
	calls := 0
	return ValueProviderFunc(func(uint8, Kind) (float64, error) {
		v := values[calls%len(values)]
		calls++
		return v, nil
	}), &calls
}

func newTestRegistry(t *testing.T, cfgs ...SensorConfig) (*Registry, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: 10_000}
	reg := NewRegistry(clock)
	for _, cfg := range cfgs {
		require.NoError(t, reg.Register(cfg))
	}
	return reg, clock
}

var humidity = SensorConfig{
	GroupID:         1,
	SensorID:        7,
	Kind:            Humidity,
	Threshold:       2.0,
	ReadingInterval: 1,
	ForcedInterval:  3,
}

func TestForcedReportEveryInterval(t *testing.T) {
	reg, clock := newTestRegistry(t, humidity)
	provider, _ := sequence(0.0)
	sink := &recorder{}

	var reportedAt []int
	for m := 1; m <= 9; m++ {
		require.NoError(t, reg.Poll(provider, sink))
		if len(sink.reports) > len(reportedAt) {
			reportedAt = append(reportedAt, m)
		}
		clock.advance(1000)
	}

	require.Equal(t, []int{3, 6, 9}, reportedAt)
	for _, r := range sink.reports {
		require.Equal(t, Report{GroupID: 1, SensorID: 7, Kind: Humidity, Value: 0}, r)
	}
}

func TestThresholdAndForcedInSameTickReportOnce(t *testing.T) {
	reg, clock := newTestRegistry(t, humidity)
	provider, _ := sequence(0.0, 0.0, 5.0)
	sink := &recorder{}

	for i := 0; i < 3; i++ {
		require.NoError(t, reg.Poll(provider, sink))
		clock.advance(1000)
	}

	require.Len(t, sink.reports, 1)
	require.Equal(t, 5.0, sink.reports[0].Value)
	s := reg.Sensors()[0]
	require.Equal(t, 0, s.Measurements)
	require.Equal(t, 5.0, s.LastReported)
}

func TestThresholdCrossingResetsCounter(t *testing.T) {
	reg, clock := newTestRegistry(t, humidity)
	provider, _ := sequence(2.0, 2.5, 2.5, 2.5, 2.5)
	sink := &recorder{}

	// 2.0 crosses the threshold against the initial 0.
	require.NoError(t, reg.Poll(provider, sink))
	require.Len(t, sink.reports, 1)
	require.Equal(t, 0, reg.Sensors()[0].Measurements)

	// The counter restarted, so the forced report is three measurements away.
	for i := 0; i < 2; i++ {
		clock.advance(1000)
		require.NoError(t, reg.Poll(provider, sink))
	}
	require.Len(t, sink.reports, 1)

	clock.advance(1000)
	require.NoError(t, reg.Poll(provider, sink))
	require.Len(t, sink.reports, 2)
	require.Equal(t, 2.5, sink.reports[1].Value)
}

func TestThresholdComparesAgainstLastReportedValue(t *testing.T) {
	cfg := humidity
	cfg.ForcedInterval = 0
	reg, clock := newTestRegistry(t, cfg)
	// Creeping by 1.5 per step never crosses 2.0 step to step, but does
	// against the last sent value.
	provider, _ := sequence(0.0, 1.5, 3.0, 4.5)
	sink := &recorder{}

	for i := 0; i < 4; i++ {
		require.NoError(t, reg.Poll(provider, sink))
		clock.advance(1000)
	}

	require.Len(t, sink.reports, 1)
	require.Equal(t, 3.0, sink.reports[0].Value)
}

func TestExactThresholdReports(t *testing.T) {
	reg, _ := newTestRegistry(t, humidity)
	provider, _ := sequence(-2.0)
	sink := &recorder{}

	require.NoError(t, reg.Poll(provider, sink))
	require.Len(t, sink.reports, 1)
}

func TestNaNNeverCrossesThreshold(t *testing.T) {
	reg, clock := newTestRegistry(t, humidity)
	provider, _ := sequence(math.NaN())
	sink := &recorder{}

	for i := 0; i < 2; i++ {
		require.NoError(t, reg.Poll(provider, sink))
		clock.advance(1000)
	}
	require.Empty(t, sink.reports)
}

func TestSensorNotDueIsSkipped(t *testing.T) {
	cfg := humidity
	cfg.ReadingInterval = 5
	reg, clock := newTestRegistry(t, cfg)
	provider, calls := sequence(0.0)
	sink := &recorder{}

	require.NoError(t, reg.Poll(provider, sink))
	require.Equal(t, 1, *calls)
	require.Equal(t, uint64(15_000), reg.Sensors()[0].NextDue)

	clock.advance(4999)
	require.NoError(t, reg.Poll(provider, sink))
	require.Equal(t, 1, *calls)
	require.Equal(t, 1, reg.Sensors()[0].Measurements)

	clock.advance(1)
	require.NoError(t, reg.Poll(provider, sink))
	require.Equal(t, 2, *calls)
}

func TestPollWithoutTimeAdvanceIsNoop(t *testing.T) {
	reg, _ := newTestRegistry(t, humidity)
	provider, calls := sequence(0.0)
	sink := &recorder{}

	require.NoError(t, reg.Poll(provider, sink))
	before := reg.Sensors()

	require.NoError(t, reg.Poll(provider, sink))
	require.Equal(t, 1, *calls)
	require.Equal(t, before, reg.Sensors())
}

func TestClockReadOncePerPoll(t *testing.T) {
	first := humidity
	second := humidity
	second.SensorID = 8
	second.ReadingInterval = 2
	reg, clock := newTestRegistry(t, first, second)

	// A slow provider must not shift the tick time seen by later sensors.
	provider := ValueProviderFunc(func(uint8, Kind) (float64, error) {
		clock.advance(300)
		return 0, nil
	})
	require.NoError(t, reg.Poll(provider, &recorder{}))

	sensors := reg.Sensors()
	require.Equal(t, uint64(11_000), sensors[0].NextDue)
	require.Equal(t, uint64(12_000), sensors[1].NextDue)
}

func TestSensorsPolledInRegistrationOrder(t *testing.T) {
	var cfgs []SensorConfig
	for id := uint8(1); id <= 4; id++ {
		cfg := humidity
		cfg.SensorID = id
		cfg.Threshold = 0
		cfgs = append(cfgs, cfg)
	}
	reg, _ := newTestRegistry(t, cfgs...)
	sink := &recorder{}

	var order []uint8
	provider := ValueProviderFunc(func(id uint8, _ Kind) (float64, error) {
		order = append(order, id)
		return 1, nil
	})
	require.NoError(t, reg.Poll(provider, sink))

	require.Equal(t, []uint8{1, 2, 3, 4}, order)
	require.Len(t, sink.reports, 4)
	for i, r := range sink.reports {
		require.Equal(t, order[i], r.SensorID)
	}
}

func TestZeroForcedIntervalDisablesForcedReports(t *testing.T) {
	cfg := humidity
	cfg.ForcedInterval = 0
	reg, clock := newTestRegistry(t, cfg)
	provider, _ := sequence(0.0)
	sink := &recorder{}

	for i := 0; i < 300; i++ {
		require.NoError(t, reg.Poll(provider, sink))
		clock.advance(1000)
	}

	require.Empty(t, sink.reports)
	require.Equal(t, 300, reg.Sensors()[0].Measurements)
}

func TestFailedReadIsNotAMeasurement(t *testing.T) {
	failing := humidity
	healthy := humidity
	healthy.SensorID = 8
	healthy.Threshold = 0
	reg, clock := newTestRegistry(t, failing, healthy)
	sink := &recorder{}

	errBus := errors.New("i2c bus timeout")
	provider := ValueProviderFunc(func(id uint8, _ Kind) (float64, error) {
		if id == failing.SensorID {
			return 0, errBus
		}
		return 1, nil
	})

	err := reg.Poll(provider, sink)
	require.ErrorIs(t, err, errBus)
	require.ErrorContains(t, err, "sensor 7")

	sensors := reg.Sensors()
	require.Equal(t, 0, sensors[0].Measurements)
	require.Equal(t, clock.now+1000, sensors[0].NextDue)
	require.Len(t, sink.reports, 1)
	require.Equal(t, uint8(8), sink.reports[0].SensorID)
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry(&fakeClock{})

	cfg := humidity
	cfg.ReadingInterval = 0
	require.ErrorIs(t, reg.Register(cfg), ErrZeroReadingInterval)

	cfg = humidity
	cfg.Threshold = -0.1
	require.ErrorIs(t, reg.Register(cfg), ErrInvalidThreshold)

	cfg = humidity
	cfg.Threshold = math.NaN()
	require.ErrorIs(t, reg.Register(cfg), ErrInvalidThreshold)

	require.Zero(t, reg.Len())
	require.NoError(t, reg.Register(humidity))
	require.Equal(t, 1, reg.Len())
}

func TestRegisterInitialState(t *testing.T) {
	reg, clock := newTestRegistry(t, humidity)

	s := reg.Sensors()[0]
	require.Equal(t, humidity, s.SensorConfig)
	require.Equal(t, clock.now, s.NextDue)
	require.Zero(t, s.LastReported)
	require.Zero(t, s.Measurements)
}

func TestKindValuesAreStable(t *testing.T) {
	// Kinds travel as raw numbers, so existing values must never shift.
	require.Equal(t, Kind(0), Temperature)
	require.Equal(t, Kind(1), Humidity)
	require.Equal(t, Kind(2), LightLevel)
	require.Equal(t, Kind(3), Custom)
	require.Equal(t, Kind(4), Pressure)
	require.Equal(t, "custom", Custom.String())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "light", LightLevel.String())
	require.Equal(t, "kind(42)", Kind(42).String())

	text, err := Pressure.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "pressure", string(text))
}
