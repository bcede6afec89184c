package sensehat

import (
	"context"
	"time"
)

// Joystick waits on device events and converts them to readings for
// publishing.
type Joystick struct {
	dev JoystickDevice
}

// NewJoystick wraps a joystick device.
func NewJoystick(dev JoystickDevice) *Joystick {
	return &Joystick{dev: dev}
}

// WaitEvent blocks until the stick moves, the context is cancelled, or
// the device channel closes. The second return is false when no event
// was produced (shutdown), true otherwise.
func (j *Joystick) WaitEvent(ctx context.Context) (JoystickEvent, bool) {
	select {
	case <-ctx.Done():
		return JoystickEvent{}, false
	case event, ok := <-j.dev.Events():
		if !ok {
			return JoystickEvent{}, false
		}
		return event, true
	}
}

// EventReading flattens a stick event into a publishable reading.
func EventReading(event JoystickEvent) map[string]any {
	return map[string]any{
		"direction": string(event.Direction),
		"action":    string(event.Action),
		"timestamp": event.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}
