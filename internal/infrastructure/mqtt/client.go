package mqtt

import (
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// Connection constants.
const (
	// keepAliveInterval is the fixed keepalive for every client.
	keepAliveInterval = 30 * time.Second

	// disconnectQuiesce is how long Disable waits for in-flight
	// operations before tearing down the network loop (milliseconds).
	disconnectQuiesce = 1000

	// defaultReconnectInitialDelay and defaultReconnectMaxDelay bound
	// the reconnect backoff when the config leaves them unset.
	defaultReconnectInitialDelay = 1 * time.Second
	defaultReconnectMaxDelay     = 60 * time.Second
)

// Reading is a peripheral measurement or command: a flat mapping of
// field name to value. This layer never interprets its contents; it
// only serialises readings for publish and deserialises them on decode.
type Reading map[string]any

// Logger is the logging interface used by this package.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards everything. Used when no logger is supplied.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// connectionHooks is the small capability interface a role (Publisher
// or Subscriber) implements to react to connection lifecycle events.
// Hooks run on paho's network goroutine and must not block; the
// subscriber uses them to (re)issue its subscription on every connect
// and to unsubscribe on every non-clean disconnect.
type connectionHooks interface {
	onConnected()
	onDisconnected(err error)
}

// connection owns one logical broker connection, independent of
// publish/subscribe role. Each Publisher and Subscriber instance has
// its own connection, queue, and state; there is no cross-client
// coordination anywhere in this layer.
//
// Network errors after construction never surface synchronously: they
// arrive through the connection-lost callback, are logged, and leave
// reconnection to paho's retry loop.
type connection struct {
	identity  Identity
	fullTopic string
	client    pahomqtt.Client

	// state is the atomic connection state shared between paho's
	// network goroutine (writer via callbacks) and consumer code
	// (reader via State). StateDisabled is terminal.
	state atomic.Int32

	hooks  connectionHooks
	logger Logger
}

// newConnection builds the paho client for one role but does not
// initiate the connection; callers invoke connect() once their own
// setup is complete.
//
// Reconnection policy: paho auto-reconnect with exponential backoff
// between the configured initial and max delays. Subscriptions are
// restored by the onConnected hook, not by paho session resumption
// (sessions are clean).
func newConnection(identity Identity, suffix string, reconnect config.MQTTReconnectConfig, hooks connectionHooks, logger Logger) *connection {
	if logger == nil {
		logger = noopLogger{}
	}

	c := &connection{
		identity:  identity,
		fullTopic: fullTopic(identity.Topic(), suffix),
		hooks:     hooks,
		logger:    logger,
	}

	initialDelay := defaultReconnectInitialDelay
	if reconnect.InitialDelay > 0 {
		initialDelay = time.Duration(reconnect.InitialDelay) * time.Second
	}
	maxDelay := defaultReconnectMaxDelay
	if reconnect.MaxDelay > 0 {
		maxDelay = time.Duration(reconnect.MaxDelay) * time.Second
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(identity.BrokerURL.String())
	opts.SetClientID(identity.ClientID)
	if identity.Username != "" {
		opts.SetUsername(identity.Username)
		opts.SetPassword(identity.Password)
	}
	opts.SetCleanSession(true)
	opts.SetKeepAlive(keepAliveInterval)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(initialDelay)
	opts.SetMaxReconnectInterval(maxDelay)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleConnectionLost(err)
	})
	opts.SetReconnectingHandler(func(_ pahomqtt.Client, _ *pahomqtt.ClientOptions) {
		c.setState(StateConnecting)
	})

	c.client = pahomqtt.NewClient(opts)
	return c
}

// connect starts the asynchronous connection attempt and the background
// network loop. It never blocks on the broker: the outcome is observed
// through the connect callback, and failures are logged fire-and-forget.
func (c *connection) connect() {
	c.setState(StateConnecting)
	go c.logToken("connect", c.client.Connect())
}

// handleConnect runs on every successful (re)connection.
func (c *connection) handleConnect() {
	if !c.setState(StateConnected) {
		return // disabled while the connect was in flight
	}
	c.logger.Info("mqtt client connected",
		"client_id", c.identity.ClientID,
		"broker", c.identity.BrokerURL.Host,
	)
	c.hooks.onConnected()
}

// handleConnectionLost runs only on non-clean disconnects. A clean,
// caller-initiated disconnect (Disable) is expected shutdown and does
// not reach this branch.
func (c *connection) handleConnectionLost(err error) {
	if !c.setState(StateDisconnected) {
		return
	}
	c.logger.Warn("mqtt client disconnected",
		"client_id", c.identity.ClientID,
		"broker", c.identity.BrokerURL.Host,
		"error", err,
	)
	c.hooks.onDisconnected(err)
}

// Disable tears the client down: it requests a clean disconnect and
// stops the background network loop. This is the only sanctioned
// shutdown path and must be called before process exit to avoid
// leaking the network goroutine and socket.
//
// Disable is idempotent: the state guard makes every call after the
// first a no-op. The disabled state is terminal.
func (c *connection) Disable() {
	if !c.transitionToDisabled() {
		return
	}
	c.client.Disconnect(disconnectQuiesce)
	c.logger.Info("mqtt client disabled", "client_id", c.identity.ClientID)
}

// State returns the current connection state.
func (c *connection) State() State {
	return State(c.state.Load())
}

// setState moves to next unless the connection is disabled. Returns
// false when the terminal state blocked the transition.
func (c *connection) setState(next State) bool {
	for {
		current := c.state.Load()
		if State(current) == StateDisabled {
			return false
		}
		if c.state.CompareAndSwap(current, int32(next)) {
			return true
		}
	}
}

// transitionToDisabled enters the terminal state. Returns false if the
// connection was already disabled.
func (c *connection) transitionToDisabled() bool {
	for {
		current := c.state.Load()
		if State(current) == StateDisabled {
			return false
		}
		if c.state.CompareAndSwap(current, int32(StateDisabled)) {
			return true
		}
	}
}

// logToken waits for a paho token in the background and logs the
// outcome. Acknowledgements in this layer are fire-and-forget: they are
// logged but never awaited by the caller and never change caller-visible
// state.
func (c *connection) logToken(op string, token pahomqtt.Token) {
	token.Wait()
	if err := token.Error(); err != nil {
		c.logger.Warn("mqtt "+op+" failed",
			"client_id", c.identity.ClientID,
			"topic", c.fullTopic,
			"error", err,
		)
		return
	}
	c.logger.Debug("broker acknowledged "+op,
		"client_id", c.identity.ClientID,
		"topic", c.fullTopic,
	)
}
