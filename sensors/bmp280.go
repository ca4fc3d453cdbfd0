package sensors

import (
	"math/rand/v2"
	"time"
)

// BMP280 simulates a barometric pressure and temperature sensor on I2C.
// Pressure follows a slow random walk so the trend forecast has something to
// track.
type BMP280 struct {
	Address  byte
	pressure float64
}

func NewBMP280(address byte) *BMP280 {
	return &BMP280{Address: address, pressure: 1013.25}
}

func (b *BMP280) Name() string {
	return "BMP280"
}

func (b *BMP280) Read() (*SensorData, error) {
	// Simulate reading from I2C - replace with actual I2C library
	b.pressure += (rand.Float64() - 0.5) * 0.2
	temperature := 20.0 + rand.Float64()*10.0

	return &SensorData{
		SensorType: "bmp280",
		Fields: map[string]float64{
			FieldPressure:    b.pressure,
			FieldTemperature: temperature,
		},
		Timestamp: time.Now(),
	}, nil
}
