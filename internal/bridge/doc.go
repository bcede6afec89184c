// Package bridge runs the SenseHAT-to-MQTT loops.
//
// Three goroutines, one per peripheral:
//
//   - sensor loop: snapshot on a fixed ticker, publish to the sensor
//     status topic, fan out to storage
//   - led loop: poll the subscriber's inbound queue, apply each decoded
//     command to the matrix
//   - joystick loop: block on stick events, publish each one
//
// Collaborators arrive through small interfaces (Publisher, Subscriber,
// Archive, Sink) so the loops can be tested without a broker or
// hardware. Storage fan-out is best effort: a failed archive or
// time-series write is logged and the loop keeps going.
package bridge
