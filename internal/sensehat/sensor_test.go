package sensehat

import (
	"errors"
	"testing"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// failingDevice wraps a SimDevice but fails one probe.
type failingDevice struct {
	*SimDevice
}

func (d *failingDevice) Humidity() (float64, error) {
	return 0, errors.New("i2c timeout")
}

func TestSensorRead(t *testing.T) {
	dev := NewSimDevice()
	dev.TemperatureC = 22.4567

	sensor := NewSensor(dev, config.SenseHatConfig{Rounding: 2})

	reading, err := sensor.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	wantFields := []string{
		"temperature", "humidity", "pressure",
		"pitch", "roll", "yaw",
		"acceleration_x", "acceleration_y", "acceleration_z",
		"gyroscope_x", "gyroscope_y", "gyroscope_z",
	}
	if len(reading) != len(wantFields) {
		t.Errorf("Read() returned %d fields, want %d: %v", len(reading), len(wantFields), reading)
	}
	for _, field := range wantFields {
		if _, ok := reading[field]; !ok {
			t.Errorf("Read() missing field %q", field)
		}
	}

	if reading["temperature"] != 22.46 {
		t.Errorf("temperature = %v, want 22.46 (rounded)", reading["temperature"])
	}
}

func TestSensorRounding(t *testing.T) {
	dev := NewSimDevice()
	dev.PressureMbar = 1013.256789

	tests := []struct {
		rounding int
		want     float64
	}{
		{0, 1013},
		{1, 1013.3},
		{2, 1013.26},
		{4, 1013.2568},
	}

	for _, tt := range tests {
		sensor := NewSensor(dev, config.SenseHatConfig{Rounding: tt.rounding})
		reading, err := sensor.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if reading["pressure"] != tt.want {
			t.Errorf("pressure with rounding %d = %v, want %v", tt.rounding, reading["pressure"], tt.want)
		}
	}
}

func TestSensorMultipliers(t *testing.T) {
	dev := NewSimDevice() // accelerometer reports (0, 0, 1)

	sensor := NewSensor(dev, config.SenseHatConfig{
		Rounding:               2,
		AccelerationMultiplier: 9.80665,
		GyroscopeMultiplier:    2.0,
	})

	reading, err := sensor.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if reading["acceleration_z"] != 9.81 {
		t.Errorf("acceleration_z = %v, want 9.81", reading["acceleration_z"])
	}
	if reading["gyroscope_x"] != 0.0 {
		t.Errorf("gyroscope_x = %v, want 0", reading["gyroscope_x"])
	}
}

func TestSensorZeroMultiplierDefaultsToOne(t *testing.T) {
	dev := NewSimDevice()

	// An unset multiplier must not zero out the vectors.
	sensor := NewSensor(dev, config.SenseHatConfig{Rounding: 2})
	reading, err := sensor.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if reading["acceleration_z"] != 1.0 {
		t.Errorf("acceleration_z = %v, want 1", reading["acceleration_z"])
	}
}

func TestSensorReadFailsWhole(t *testing.T) {
	dev := &failingDevice{SimDevice: NewSimDevice()}
	sensor := NewSensor(dev, config.SenseHatConfig{Rounding: 2})

	reading, err := sensor.Read()
	if err == nil {
		t.Fatal("Read() error = nil with failing probe, want error")
	}
	if reading != nil {
		t.Errorf("Read() = %v with failing probe, want nil (no partial readings)", reading)
	}
}
