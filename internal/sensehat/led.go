package sensehat

import (
	"errors"
	"fmt"
)

// ErrBadCommand is returned when an LED command carries a field of the
// wrong shape (non-string message, malformed colour, invalid rotation).
// The command is skipped; the matrix and the command stream stay usable.
var ErrBadCommand = errors.New("sensehat: bad led command")

// validRotations are the orientations the matrix supports.
var validRotations = map[int]bool{0: true, 90: true, 180: true, 270: true}

// LEDMatrix consumes decoded command readings and drives the display.
//
// Commands are field maps arriving from the led/cmd topic:
//
//	{"message": "hi", "color": [0,255,0], "background": [0,0,0]}
//	{"rotation": 180}
//	{"low_light": true}
//	{"clear": true}
//
// Unknown fields are ignored so command producers can evolve ahead of
// the bridge.
type LEDMatrix struct {
	dev Display
}

// NewLEDMatrix wraps a display. The low-light preference from config is
// applied immediately.
func NewLEDMatrix(dev Display, lowLight bool) (*LEDMatrix, error) {
	if err := dev.SetLowLight(lowLight); err != nil {
		return nil, fmt.Errorf("setting low light: %w", err)
	}
	return &LEDMatrix{dev: dev}, nil
}

// Welcome scrolls the startup message, if configured. Best effort.
func (m *LEDMatrix) Welcome(text string) error {
	if text == "" {
		return nil
	}
	return m.dev.ShowMessage(text, ColorWhite, ColorBlack)
}

// Apply executes one command reading against the display. Field order
// is fixed: clear, low_light, rotation, then message, so a single
// command can reset and redraw atomically from the producer's view.
func (m *LEDMatrix) Apply(cmd map[string]any) error {
	if value, ok := cmd["clear"]; ok {
		if on, isBool := value.(bool); isBool && on {
			if err := m.dev.Clear(); err != nil {
				return fmt.Errorf("clearing display: %w", err)
			}
		}
	}

	if value, ok := cmd["low_light"]; ok {
		on, isBool := value.(bool)
		if !isBool {
			return fmt.Errorf("%w: low_light must be a boolean, got %T", ErrBadCommand, value)
		}
		if err := m.dev.SetLowLight(on); err != nil {
			return fmt.Errorf("setting low light: %w", err)
		}
	}

	if value, ok := cmd["rotation"]; ok {
		degrees, err := intField(value)
		if err != nil || !validRotations[degrees] {
			return fmt.Errorf("%w: rotation must be 0, 90, 180 or 270, got %v", ErrBadCommand, value)
		}
		if err := m.dev.SetRotation(degrees); err != nil {
			return fmt.Errorf("setting rotation: %w", err)
		}
	}

	if value, ok := cmd["message"]; ok {
		text, isString := value.(string)
		if !isString {
			return fmt.Errorf("%w: message must be a string, got %T", ErrBadCommand, value)
		}

		fg, err := colorField(cmd, "color", ColorWhite)
		if err != nil {
			return err
		}
		bg, err := colorField(cmd, "background", ColorBlack)
		if err != nil {
			return err
		}

		if err := m.dev.ShowMessage(text, fg, bg); err != nil {
			return fmt.Errorf("showing message: %w", err)
		}
	}

	return nil
}

// Clear blanks the matrix. Called on shutdown so the display does not
// keep glowing after the bridge exits.
func (m *LEDMatrix) Clear() error {
	return m.dev.Clear()
}

// colorField reads an optional [r,g,b] field from a command.
func colorField(cmd map[string]any, field string, fallback Color) (Color, error) {
	value, ok := cmd[field]
	if !ok {
		return fallback, nil
	}

	// JSON arrays decode as []any with float64 elements.
	parts, isSlice := value.([]any)
	if !isSlice || len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: %s must be [r, g, b], got %v", ErrBadCommand, field, value)
	}

	var c Color
	for i, part := range parts {
		channel, err := intField(part)
		if err != nil || channel < 0 || channel > 255 {
			return Color{}, fmt.Errorf("%w: %s[%d] must be 0-255, got %v", ErrBadCommand, field, i, part)
		}
		c[i] = uint8(channel)
	}
	return c, nil
}

// intField converts a decoded JSON number (or a native int) to int.
func intField(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: expected integer, got %v", ErrBadCommand, v)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: expected number, got %T", ErrBadCommand, value)
	}
}
