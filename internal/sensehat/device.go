package sensehat

import "time"

// SensorDevice is the hardware surface the Sensor reads from.
//
// Implementations wrap the actual HAT (HTS221 humidity, LPS25H
// pressure, LSM9DS1 IMU) or a simulation. All values are in the
// device's native units: °C, %RH, millibar, degrees, g, rad/s.
type SensorDevice interface {
	Temperature() (float64, error)
	Humidity() (float64, error)
	Pressure() (float64, error)

	// Orientation returns pitch, roll, yaw in degrees.
	Orientation() (pitch, roll, yaw float64, err error)

	// Accelerometer returns the raw acceleration vector in g.
	Accelerometer() (x, y, z float64, err error)

	// Gyroscope returns the rotation rates in rad/s.
	Gyroscope() (x, y, z float64, err error)
}

// Display is the hardware surface the LEDMatrix drives.
type Display interface {
	// ShowMessage scrolls text across the matrix in the given
	// foreground and background colours. Blocks until the scroll
	// completes.
	ShowMessage(text string, fg, bg Color) error

	// SetRotation rotates the display. Valid values: 0, 90, 180, 270.
	SetRotation(degrees int) error

	// SetLowLight toggles the dimmed mode.
	SetLowLight(on bool) error

	// Clear blanks the matrix.
	Clear() error
}

// JoystickDevice is the hardware surface the Joystick listens to.
type JoystickDevice interface {
	// Events delivers stick events as they happen. The channel is
	// closed when the device shuts down.
	Events() <-chan JoystickEvent
}

// Color is an RGB triple for the LED matrix.
type Color [3]uint8

// Predefined colours used by defaults and the welcome scroll.
var (
	ColorWhite = Color{255, 255, 255}
	ColorBlack = Color{0, 0, 0}
)

// Direction is where the stick was pushed.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
	DirectionMiddle Direction = "middle"
)

// Action is what happened to the stick.
type Action string

const (
	ActionPressed  Action = "pressed"
	ActionReleased Action = "released"
	ActionHeld     Action = "held"
)

// JoystickEvent is one stick movement.
type JoystickEvent struct {
	Direction Direction
	Action    Action
	Timestamp time.Time
}
