package mqtt

import (
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken is an already-completed paho token.
type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// publishCall records one Publish invocation on the fake client.
type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient implements pahomqtt.Client in memory, recording the calls
// the code under test makes.
type fakeClient struct {
	mu sync.Mutex

	connected   bool
	connects    int
	disconnects int

	publishes    []publishCall
	subscribes   []string
	unsubscribes []string

	// handler is the callback registered by the last Subscribe call.
	handler pahomqtt.MessageHandler
}

func (c *fakeClient) IsConnected() bool      { return c.connectedNow() }
func (c *fakeClient) IsConnectionOpen() bool { return c.connectedNow() }

func (c *fakeClient) connectedNow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *fakeClient) Connect() pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	c.connects++
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnects++
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, _ := payload.([]byte)
	c.publishes = append(c.publishes, publishCall{
		topic:    topic,
		qos:      qos,
		retained: retained,
		payload:  raw,
	})
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribes = append(c.subscribes, topic)
	c.handler = callback
	return &fakeToken{}
}

func (c *fakeClient) SubscribeMultiple(filters map[string]byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic := range filters {
		c.subscribes = append(c.subscribes, topic)
	}
	c.handler = callback
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribes = append(c.unsubscribes, topics...)
	return &fakeToken{}
}

func (c *fakeClient) AddRoute(string, pahomqtt.MessageHandler) {}

func (c *fakeClient) OptionsReader() pahomqtt.ClientOptionsReader {
	return pahomqtt.ClientOptionsReader{}
}

func (c *fakeClient) publishCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.publishes)
}

func (c *fakeClient) lastPublish() publishCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publishes[len(c.publishes)-1]
}

func (c *fakeClient) disconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

// fakeMessage implements pahomqtt.Message for delivery tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}
