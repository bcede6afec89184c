package mqtt

import (
	"errors"
	"fmt"
)

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidBrokerAddress is returned at construction when the broker
	// address cannot be parsed or names an unsupported scheme.
	// A client that fails construction is never usable.
	ErrInvalidBrokerAddress = errors.New("mqtt: invalid broker address")

	// ErrInvalidPeripheralType is returned at construction when the
	// peripheral type is not sensor, led, or joystick.
	ErrInvalidPeripheralType = errors.New("mqtt: invalid peripheral type")

	// ErrEncodeReading is returned when a reading cannot be serialised
	// to JSON for publishing.
	ErrEncodeReading = errors.New("mqtt: encoding reading failed")

	// ErrMessageDecode is returned when an inbound payload is not valid
	// JSON. The concrete error is always a *DecodeError carrying the
	// offending payload.
	ErrMessageDecode = errors.New("mqtt: message decode failed")
)

// maxQuotedPayload limits how much of a bad payload is reproduced in
// error messages and logs.
const maxQuotedPayload = 64

// DecodeError reports an inbound message whose payload could not be
// parsed as JSON. The message has already been dequeued; catching this
// error per-call and continuing keeps the rest of the stream intact.
type DecodeError struct {
	// Payload is the raw, undecodable message payload.
	Payload []byte

	// Cause is the underlying JSON parse error.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	payload := e.Payload
	truncated := ""
	if len(payload) > maxQuotedPayload {
		payload = payload[:maxQuotedPayload]
		truncated = "..."
	}
	return fmt.Sprintf("%v: %v (payload %q%s)", ErrMessageDecode, e.Cause, payload, truncated)
}

// Unwrap makes errors.Is(err, ErrMessageDecode) work for callers that
// do not care about the payload.
func (e *DecodeError) Unwrap() error {
	return ErrMessageDecode
}
