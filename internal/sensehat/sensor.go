package sensehat

import (
	"fmt"
	"math"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// Sensor turns raw device values into a flat reading ready for
// publishing: environmental fields plus the IMU vectors, scaled by the
// configured multipliers and rounded to the configured precision.
type Sensor struct {
	dev       SensorDevice
	rounding  int
	accelMult float64
	gyroMult  float64
}

// NewSensor creates a sensor wrapper around a device.
//
// Parameters:
//   - dev: The hardware (or simulated) sensor device
//   - cfg: SenseHAT configuration (rounding, multipliers)
//
// Returns:
//   - *Sensor: Ready for Read calls
func NewSensor(dev SensorDevice, cfg config.SenseHatConfig) *Sensor {
	accelMult := cfg.AccelerationMultiplier
	if accelMult == 0 {
		accelMult = 1.0
	}
	gyroMult := cfg.GyroscopeMultiplier
	if gyroMult == 0 {
		gyroMult = 1.0
	}

	return &Sensor{
		dev:       dev,
		rounding:  cfg.Rounding,
		accelMult: accelMult,
		gyroMult:  gyroMult,
	}
}

// Read takes one snapshot of every sensor and returns it as a flat
// field map. A failing probe fails the whole snapshot; partial
// readings are never published.
func (s *Sensor) Read() (map[string]any, error) {
	temperature, err := s.dev.Temperature()
	if err != nil {
		return nil, fmt.Errorf("reading temperature: %w", err)
	}
	humidity, err := s.dev.Humidity()
	if err != nil {
		return nil, fmt.Errorf("reading humidity: %w", err)
	}
	pressure, err := s.dev.Pressure()
	if err != nil {
		return nil, fmt.Errorf("reading pressure: %w", err)
	}
	pitch, roll, yaw, err := s.dev.Orientation()
	if err != nil {
		return nil, fmt.Errorf("reading orientation: %w", err)
	}
	accelX, accelY, accelZ, err := s.dev.Accelerometer()
	if err != nil {
		return nil, fmt.Errorf("reading accelerometer: %w", err)
	}
	gyroX, gyroY, gyroZ, err := s.dev.Gyroscope()
	if err != nil {
		return nil, fmt.Errorf("reading gyroscope: %w", err)
	}

	return map[string]any{
		"temperature":    s.round(temperature),
		"humidity":       s.round(humidity),
		"pressure":       s.round(pressure),
		"pitch":          s.round(pitch),
		"roll":           s.round(roll),
		"yaw":            s.round(yaw),
		"acceleration_x": s.round(accelX * s.accelMult),
		"acceleration_y": s.round(accelY * s.accelMult),
		"acceleration_z": s.round(accelZ * s.accelMult),
		"gyroscope_x":    s.round(gyroX * s.gyroMult),
		"gyroscope_y":    s.round(gyroY * s.gyroMult),
		"gyroscope_z":    s.round(gyroZ * s.gyroMult),
	}, nil
}

// round keeps the configured number of decimal places.
func (s *Sensor) round(value float64) float64 {
	factor := math.Pow(10, float64(s.rounding))
	return math.Round(value*factor) / factor
}
