package mqtt

import (
	"encoding/json"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// Subscriber owns one broker connection and consumes command messages
// from the cmd leaf of its topic:
//
//	{zone}/{room}/{client_name}/{type}/cmd
//
// Inbound messages are buffered verbatim in an unbounded FIFO queue by
// paho's network goroutine; the consumer drains them one at a time with
// DecodedMessage. No filtering happens beyond the broker's own
// subscription matching.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Subscriber struct {
	conn  *connection
	queue inboundQueue
}

// NewSubscriber validates the client identity, builds the cmd topic,
// and starts the asynchronous connection attempt. The subscription is
// issued by the connect callback, and re-issued on every reconnection,
// so it survives broker restarts.
//
// Construction fails only on identity problems (ErrInvalidBrokerAddress,
// ErrInvalidPeripheralType), never on network conditions.
func NewSubscriber(cfg config.MQTTConfig, peripheral PeripheralType, logger Logger) (*Subscriber, error) {
	identity, err := NewIdentity(cfg, peripheral)
	if err != nil {
		return nil, err
	}

	s := &Subscriber{}
	s.conn = newConnection(identity, CommandSuffix, cfg.Reconnect, s, logger)
	s.conn.connect()
	return s, nil
}

// DecodedMessage dequeues the oldest buffered message and parses its
// payload as a JSON object.
//
// An empty queue is not a fault: it returns an empty Reading and a nil
// error, any number of times, with no side effects. A payload that is
// not valid JSON returns a *DecodeError (matchable with
// errors.Is(err, ErrMessageDecode)) carrying the offending bytes; the
// message is consumed either way, so one bad command never blocks the
// ones behind it and never tears down the connection.
func (s *Subscriber) DecodedMessage() (Reading, error) {
	payload, ok := s.queue.tryDequeue()
	if !ok {
		return Reading{}, nil
	}

	var reading Reading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return nil, &DecodeError{Payload: payload, Cause: err}
	}
	return reading, nil
}

// QueuedMessages returns the number of buffered, undecoded messages.
// Useful for monitoring consumers that might be falling behind.
func (s *Subscriber) QueuedMessages() int {
	return s.queue.len()
}

// FullTopic returns the cmd topic this subscriber listens on.
func (s *Subscriber) FullTopic() string {
	return s.conn.fullTopic
}

// Identity returns the immutable client identity.
func (s *Subscriber) Identity() Identity {
	return s.conn.identity
}

// State returns the current connection state.
func (s *Subscriber) State() State {
	return s.conn.State()
}

// Disable tears down the connection. Idempotent; see connection.Disable.
func (s *Subscriber) Disable() {
	s.conn.Disable()
}

// onConnected implements connectionHooks: (re)subscribe to the cmd
// topic. Runs on every successful connection, not just the first, so a
// broker that dropped the session still delivers commands afterwards.
// The subscribe acknowledgement is logged, never awaited.
func (s *Subscriber) onConnected() {
	token := s.conn.client.Subscribe(s.conn.fullTopic, qosAtMostOnce, s.handleMessage)
	go s.conn.logToken("subscribe", token)
}

// onDisconnected implements connectionHooks: best-effort unsubscribe.
// The transport is usually already down when this runs, so a failure
// here is logged and otherwise ignored.
func (s *Subscriber) onDisconnected(error) {
	token := s.conn.client.Unsubscribe(s.conn.fullTopic)
	go s.conn.logToken("unsubscribe", token)
}

// handleMessage is paho's delivery callback. It runs on the network
// goroutine and must not block, so it only appends the raw payload to
// the queue; decoding happens on the consumer's goroutine.
func (s *Subscriber) handleMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	s.queue.enqueue(msg.Payload())
	s.conn.logger.Debug("mqtt message enqueued",
		"client_id", s.conn.identity.ClientID,
		"topic", msg.Topic(),
		"queued", s.queue.len(),
	)
}
