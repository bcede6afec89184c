package sensehat

import (
	"errors"
	"testing"
)

func newTestMatrix(t *testing.T) (*LEDMatrix, *SimDevice) {
	t.Helper()

	dev := NewSimDevice()
	matrix, err := NewLEDMatrix(dev, false)
	if err != nil {
		t.Fatalf("NewLEDMatrix() error = %v", err)
	}
	return matrix, dev
}

func TestNewLEDMatrixAppliesLowLight(t *testing.T) {
	dev := NewSimDevice()
	if _, err := NewLEDMatrix(dev, true); err != nil {
		t.Fatalf("NewLEDMatrix() error = %v", err)
	}
	if !dev.LowLight {
		t.Error("LowLight = false after construction with low_light on")
	}
}

func TestApplyMessage(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	err := matrix.Apply(map[string]any{
		"message":    "hello",
		"color":      []any{float64(0), float64(255), float64(0)},
		"background": []any{float64(10), float64(20), float64(30)},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(dev.Messages) != 1 || dev.Messages[0] != "hello" {
		t.Fatalf("Messages = %v, want [hello]", dev.Messages)
	}
	if dev.LastFg != (Color{0, 255, 0}) {
		t.Errorf("foreground = %v, want [0 255 0]", dev.LastFg)
	}
	if dev.LastBg != (Color{10, 20, 30}) {
		t.Errorf("background = %v, want [10 20 30]", dev.LastBg)
	}
}

func TestApplyMessageDefaultColors(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	if err := matrix.Apply(map[string]any{"message": "plain"}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if dev.LastFg != ColorWhite || dev.LastBg != ColorBlack {
		t.Errorf("colors = %v on %v, want white on black", dev.LastFg, dev.LastBg)
	}
}

func TestApplyRotation(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	// JSON numbers decode as float64.
	if err := matrix.Apply(map[string]any{"rotation": float64(180)}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if dev.Rotation != 180 {
		t.Errorf("Rotation = %d, want 180", dev.Rotation)
	}
}

func TestApplyLowLightAndClear(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	if err := matrix.Apply(map[string]any{"low_light": true}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !dev.LowLight {
		t.Error("LowLight = false, want true")
	}

	if err := matrix.Apply(map[string]any{"clear": true}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if dev.Cleared != 1 {
		t.Errorf("Cleared = %d, want 1", dev.Cleared)
	}
}

func TestApplyCombinedCommand(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	// clear runs before the message so the command redraws atomically.
	err := matrix.Apply(map[string]any{
		"clear":   true,
		"message": "fresh",
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if dev.Cleared != 1 || len(dev.Messages) != 1 {
		t.Errorf("Cleared = %d, Messages = %v", dev.Cleared, dev.Messages)
	}
}

func TestApplyBadCommands(t *testing.T) {
	matrix, _ := newTestMatrix(t)

	tests := []struct {
		name string
		cmd  map[string]any
	}{
		{"non-string message", map[string]any{"message": 42}},
		{"invalid rotation", map[string]any{"rotation": float64(45)}},
		{"non-integer rotation", map[string]any{"rotation": 90.5}},
		{"non-bool low_light", map[string]any{"low_light": "yes"}},
		{"short color", map[string]any{"message": "x", "color": []any{float64(1)}}},
		{"out of range channel", map[string]any{"message": "x", "color": []any{float64(0), float64(0), float64(300)}}},
		{"non-array color", map[string]any{"message": "x", "color": "green"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := matrix.Apply(tt.cmd)
			if !errors.Is(err, ErrBadCommand) {
				t.Errorf("Apply(%v) error = %v, want ErrBadCommand", tt.cmd, err)
			}
		})
	}
}

func TestApplyUnknownFieldsIgnored(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	if err := matrix.Apply(map[string]any{"brightness": 0.5}); err != nil {
		t.Errorf("Apply() error = %v for unknown field, want nil", err)
	}
	if len(dev.Messages) != 0 || dev.Cleared != 0 {
		t.Error("unknown field caused display activity")
	}
}

func TestWelcome(t *testing.T) {
	matrix, dev := newTestMatrix(t)

	if err := matrix.Welcome("hi there"); err != nil {
		t.Fatalf("Welcome() error = %v", err)
	}
	if len(dev.Messages) != 1 || dev.Messages[0] != "hi there" {
		t.Errorf("Messages = %v", dev.Messages)
	}

	// Empty message is a no-op, not an error.
	if err := matrix.Welcome(""); err != nil {
		t.Errorf("Welcome(\"\") error = %v", err)
	}
	if len(dev.Messages) != 1 {
		t.Errorf("Messages = %v after empty welcome", dev.Messages)
	}
}
