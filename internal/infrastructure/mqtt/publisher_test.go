package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
)

// newTestPublisher builds a Publisher wired to a fake paho client, so
// tests exercise the layer's own behaviour without a broker.
func newTestPublisher(t *testing.T) (*Publisher, *fakeClient) {
	t.Helper()

	identity, err := NewIdentity(testMQTTConfig(), PeripheralSensor)
	if err != nil {
		t.Fatalf("NewIdentity() error = %v", err)
	}

	p := &Publisher{}
	fake := &fakeClient{connected: true}
	p.conn = &connection{
		identity:  identity,
		fullTopic: fullTopic(identity.Topic(), StatusSuffix),
		client:    fake,
		hooks:     p,
		logger:    noopLogger{},
	}
	p.conn.state.Store(int32(StateConnected))
	return p, fake
}

// =============================================================================
// Publish Tests
// =============================================================================

func TestPublish(t *testing.T) {
	p, fake := newTestPublisher(t)

	err := p.Publish(Reading{"temperature": 21.5, "humidity": 40.0})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if fake.publishCount() != 1 {
		t.Fatalf("publish count = %d, want 1", fake.publishCount())
	}

	call := fake.lastPublish()
	if call.topic != "home/office/sensehat/sensor/status" {
		t.Errorf("published topic = %q, want home/office/sensehat/sensor/status", call.topic)
	}
	if call.qos != 0 {
		t.Errorf("published qos = %d, want 0", call.qos)
	}
	if !call.retained {
		t.Error("published retained = false, want true")
	}

	var got map[string]float64
	if err := json.Unmarshal(call.payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got["temperature"] != 21.5 || got["humidity"] != 40.0 {
		t.Errorf("payload = %v, want temperature=21.5 humidity=40", got)
	}
}

func TestPublishEncodeError(t *testing.T) {
	p, fake := newTestPublisher(t)

	// Channels are not JSON-serialisable.
	err := p.Publish(Reading{"bad": make(chan int)})
	if !errors.Is(err, ErrEncodeReading) {
		t.Errorf("Publish() error = %v, want ErrEncodeReading", err)
	}

	if fake.publishCount() != 0 {
		t.Errorf("publish count = %d after encode failure, want 0", fake.publishCount())
	}
}

func TestPublishWhileDisconnected(t *testing.T) {
	p, fake := newTestPublisher(t)
	p.conn.state.Store(int32(StateDisconnected))

	// Network conditions never surface from Publish; paho owns delivery.
	if err := p.Publish(Reading{"temperature": 20.0}); err != nil {
		t.Errorf("Publish() error = %v while disconnected, want nil", err)
	}
	if fake.publishCount() != 1 {
		t.Errorf("publish count = %d, want 1", fake.publishCount())
	}
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestPublisherFullTopic(t *testing.T) {
	p, _ := newTestPublisher(t)
	if got := p.FullTopic(); got != "home/office/sensehat/sensor/status" {
		t.Errorf("FullTopic() = %q", got)
	}
}

func TestPublisherDisable(t *testing.T) {
	p, fake := newTestPublisher(t)

	p.Disable()
	if p.State() != StateDisabled {
		t.Errorf("State() = %v after Disable, want StateDisabled", p.State())
	}
	if fake.disconnectCount() != 1 {
		t.Errorf("disconnect count = %d, want 1", fake.disconnectCount())
	}

	// Idempotent: further calls are no-ops.
	p.Disable()
	p.Disable()
	if fake.disconnectCount() != 1 {
		t.Errorf("disconnect count = %d after repeated Disable, want 1", fake.disconnectCount())
	}
}

func TestPublisherDisabledStateIsTerminal(t *testing.T) {
	p, _ := newTestPublisher(t)
	p.Disable()

	// A straggling connect callback must not resurrect the client.
	p.conn.handleConnect()
	if p.State() != StateDisabled {
		t.Errorf("State() = %v after late connect callback, want StateDisabled", p.State())
	}

	p.conn.handleConnectionLost(errors.New("gone"))
	if p.State() != StateDisabled {
		t.Errorf("State() = %v after late disconnect callback, want StateDisabled", p.State())
	}
}
