package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// Publisher owns one broker connection and publishes peripheral
// readings, retained at QoS 0, to the status leaf of its topic:
//
//	{zone}/{room}/{client_name}/{type}/status
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Publisher struct {
	conn *connection
}

// NewPublisher validates the client identity, builds the status topic,
// and starts the asynchronous connection attempt. It returns before the
// broker has acknowledged anything; publishing is valid immediately and
// paho buffers or drops per QoS 0 semantics until the session is up.
//
// Construction fails only on identity problems (ErrInvalidBrokerAddress,
// ErrInvalidPeripheralType), never on network conditions.
func NewPublisher(cfg config.MQTTConfig, peripheral PeripheralType, logger Logger) (*Publisher, error) {
	identity, err := NewIdentity(cfg, peripheral)
	if err != nil {
		return nil, err
	}

	p := &Publisher{}
	p.conn = newConnection(identity, StatusSuffix, cfg.Reconnect, p, logger)
	p.conn.connect()
	return p, nil
}

// Publish serialises the reading to JSON and publishes it to the status
// topic with at-most-once delivery and the retain flag set, so the
// broker caches the last value for new subscribers.
//
// Each call performs exactly one publish attempt: no retry, no
// buffering beyond what paho itself provides. The broker's publish
// acknowledgement is logged in the background and never awaited. The
// only error this method returns is a serialisation failure
// (ErrEncodeReading); network conditions are not surfaced here.
func (p *Publisher) Publish(reading Reading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeReading, err)
	}

	token := p.conn.client.Publish(p.conn.fullTopic, qosAtMostOnce, true, payload)
	go p.conn.logToken("publish", token)
	return nil
}

// FullTopic returns the status topic this publisher targets.
func (p *Publisher) FullTopic() string {
	return p.conn.fullTopic
}

// Identity returns the immutable client identity.
func (p *Publisher) Identity() Identity {
	return p.conn.identity
}

// State returns the current connection state.
func (p *Publisher) State() State {
	return p.conn.State()
}

// Disable tears down the connection. Idempotent; see connection.Disable.
func (p *Publisher) Disable() {
	p.conn.Disable()
}

// onConnected implements connectionHooks. Publishers have no per-role
// connect work; state handling and logging live in the connection.
func (p *Publisher) onConnected() {}

// onDisconnected implements connectionHooks.
func (p *Publisher) onDisconnected(error) {}
