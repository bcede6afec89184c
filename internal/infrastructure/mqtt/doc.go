// Package mqtt provides the MQTT client layer shared by every
// SenseHAT peripheral binding: topic naming, connection lifecycle, and
// the publish/subscribe contracts.
//
// This package manages:
//   - One broker connection per Publisher/Subscriber instance
//   - Deterministic topic construction from zone/room/name/type
//   - Retained QoS 0 publishing of JSON readings
//   - Command subscription with an unbounded FIFO inbound queue
//   - Auto-reconnect with exponential backoff (paho)
//
// # Architecture
//
// Each peripheral (sensor, LED matrix, joystick) gets its own client so
// the broker sees three independent endpoints:
//
//	sensor   → Publisher  → {zone}/{room}/{name}/sensor/status
//	joystick → Publisher  → {zone}/{room}/{name}/joystick/status
//	led      ← Subscriber ← {zone}/{room}/{name}/led/cmd
//
// Two concurrency domains exist per client: paho's network goroutine,
// which runs all callbacks and socket I/O, and the peripheral's polling
// loop. They share exactly one mutable resource, the inbound queue;
// connection state is a single atomic. Callbacks never re-enter
// consumer logic directly.
//
// # Shutdown
//
// Disable() is the only sanctioned teardown: it requests a clean
// disconnect and stops the network loop. It is idempotent and the
// disabled state is terminal. Callers must invoke it before process
// exit or the network goroutine and socket leak.
//
// # Usage
//
//	pub, err := mqtt.NewPublisher(cfg.MQTT, mqtt.PeripheralSensor, log)
//	if err != nil {
//	    return err // bad broker address or peripheral type
//	}
//	defer pub.Disable()
//
//	_ = pub.Publish(mqtt.Reading{"temperature": 21.5})
//
//	sub, err := mqtt.NewSubscriber(cfg.MQTT, mqtt.PeripheralLED, log)
//	if err != nil {
//	    return err
//	}
//	defer sub.Disable()
//
//	cmd, err := sub.DecodedMessage() // empty Reading when nothing queued
//
// TLS certificate configuration is not plumbed through yet; ssl/tls
// schemes are passed to paho with its defaults.
package mqtt
