package sensors

import (
	"fmt"
	"time"

	"github.com/MichaelS11/go-dht"
)

// DHT22 is a temperature and humidity sensor on a GPIO pin.
type DHT22 struct {
	Pin     string
	Retries int
	dht     *dht.DHT
}

func NewDHT22(pin string) (*DHT22, error) {
	if err := dht.HostInit(); err != nil {
		return nil, fmt.Errorf("dht host init: %w", err)
	}

	d, err := dht.NewDHT(pin, dht.Celsius, "")
	if err != nil {
		return nil, fmt.Errorf("dht22 on %s: %w", pin, err)
	}

	return &DHT22{Pin: pin, Retries: 11, dht: d}, nil
}

func (d *DHT22) Name() string {
	return "DHT22"
}

func (d *DHT22) Read() (*SensorData, error) {
	humidity, temperature, err := d.dht.ReadRetry(d.Retries)
	if err != nil {
		return nil, err
	}

	return &SensorData{
		SensorType: "dht22",
		Fields: map[string]float64{
			FieldTemperature: temperature,
			FieldHumidity:    humidity,
		},
		Timestamp: time.Now(),
	}, nil
}
