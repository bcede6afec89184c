package sensehat

import (
	"sync"
	"time"
)

// simEventBuffer is the capacity of the simulated joystick channel.
const simEventBuffer = 16

// SimDevice is an in-memory SenseHAT: fixed-baseline sensors, a
// display that records what it was told, and a joystick fed by Push.
//
// It backs development machines without the HAT and every unit test in
// this repository.
//
// TODO: add an I2C-backed device (HTS221/LPS25H/LSM9DS1 via /dev/i2c-1
// and the framebuffer at /sys/class/graphics) and select it from config.
type SimDevice struct {
	mu sync.Mutex

	// Sensor baselines, adjustable from tests.
	TemperatureC float64
	HumidityPct  float64
	PressureMbar float64

	// Display state, inspectable from tests.
	Messages  []string
	Rotation  int
	LowLight  bool
	Cleared   int
	LastFg    Color
	LastBg    Color

	events chan JoystickEvent
	closed bool
}

// NewSimDevice creates a simulated device with room-like baselines.
func NewSimDevice() *SimDevice {
	return &SimDevice{
		TemperatureC: 21.5,
		HumidityPct:  40.0,
		PressureMbar: 1013.25,
		events:       make(chan JoystickEvent, simEventBuffer),
	}
}

// Temperature implements SensorDevice.
func (d *SimDevice) Temperature() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.TemperatureC, nil
}

// Humidity implements SensorDevice.
func (d *SimDevice) Humidity() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.HumidityPct, nil
}

// Pressure implements SensorDevice.
func (d *SimDevice) Pressure() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.PressureMbar, nil
}

// Orientation implements SensorDevice. The simulated HAT lies flat.
func (d *SimDevice) Orientation() (pitch, roll, yaw float64, err error) {
	return 0, 0, 0, nil
}

// Accelerometer implements SensorDevice. Gravity on z only.
func (d *SimDevice) Accelerometer() (x, y, z float64, err error) {
	return 0, 0, 1, nil
}

// Gyroscope implements SensorDevice.
func (d *SimDevice) Gyroscope() (x, y, z float64, err error) {
	return 0, 0, 0, nil
}

// ShowMessage implements Display.
func (d *SimDevice) ShowMessage(text string, fg, bg Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Messages = append(d.Messages, text)
	d.LastFg = fg
	d.LastBg = bg
	return nil
}

// SetRotation implements Display.
func (d *SimDevice) SetRotation(degrees int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Rotation = degrees
	return nil
}

// SetLowLight implements Display.
func (d *SimDevice) SetLowLight(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.LowLight = on
	return nil
}

// Clear implements Display.
func (d *SimDevice) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Cleared++
	return nil
}

// DisplayRotation reports the current rotation under the lock, for
// callers observing the display from another goroutine.
func (d *SimDevice) DisplayRotation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Rotation
}

// Events implements JoystickDevice.
func (d *SimDevice) Events() <-chan JoystickEvent {
	return d.events
}

// Push injects a joystick event, stamping it if the caller did not.
// Drops the event when the buffer is full rather than blocking.
func (d *SimDevice) Push(event JoystickEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.events <- event:
	default:
	}
}

// CloseEvents closes the joystick channel, ending WaitEvent loops.
func (d *SimDevice) CloseEvents() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
}
