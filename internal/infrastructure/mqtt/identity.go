package mqtt

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// PeripheralType identifies which SenseHAT peripheral a client speaks
// for. It is the fourth topic segment.
type PeripheralType string

const (
	PeripheralSensor   PeripheralType = "sensor"
	PeripheralLED      PeripheralType = "led"
	PeripheralJoystick PeripheralType = "joystick"
)

// Valid reports whether p is one of the known peripheral types.
func (p PeripheralType) Valid() bool {
	switch p {
	case PeripheralSensor, PeripheralLED, PeripheralJoystick:
		return true
	default:
		return false
	}
}

// schemeTransport maps accepted broker URL schemes to the transport
// scheme paho understands. ws/wss select the websocket transport;
// everything else uses the default TCP transport.
var schemeTransport = map[string]string{
	"mqtt":  "tcp",
	"tcp":   "tcp",
	"mqtts": "ssl",
	"ssl":   "ssl",
	"tls":   "ssl",
	"ws":    "ws",
	"wss":   "wss",
}

// defaultPorts supplies the conventional port when the broker address
// omits one.
var defaultPorts = map[string]string{
	"tcp": "1883",
	"ssl": "8883",
	"ws":  "80",
	"wss": "443",
}

// clientIDEntropy is how many characters of a generated UUID are used
// to build a fallback client ID.
const clientIDEntropy = 8

// Identity is the immutable description of one MQTT client: where it
// connects, which topic segments it occupies, and how it authenticates.
// It is fixed at construction; nothing mutates it afterwards.
type Identity struct {
	// BrokerURL is the parsed and normalised broker address.
	BrokerURL *url.URL

	// Zone, Room and ClientName are the leading topic segments.
	// Any of them may be empty.
	Zone       string
	Room       string
	ClientName string

	// Peripheral is the client's peripheral type (topic segment four).
	Peripheral PeripheralType

	// ClientID is the identifier presented to the broker.
	ClientID string

	// Username and Password are optional broker credentials.
	Username string
	Password string
}

// NewIdentity validates and freezes the identity of one client.
//
// It fails with ErrInvalidPeripheralType if the peripheral is not part
// of the known enumeration, and with ErrInvalidBrokerAddress if the
// configured address cannot be parsed, has no host, or names a scheme
// this layer does not support. Construction is the only place these
// faults can surface; a client that gets past here never fails
// synchronously on network conditions.
func NewIdentity(cfg config.MQTTConfig, peripheral PeripheralType) (Identity, error) {
	if !peripheral.Valid() {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidPeripheralType, peripheral)
	}

	brokerURL, err := parseBrokerAddress(cfg.Address)
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		BrokerURL:  brokerURL,
		Zone:       cfg.Zone,
		Room:       cfg.Room,
		ClientName: cfg.ClientName,
		Peripheral: peripheral,
		ClientID:   buildClientID(cfg.ClientName, peripheral),
		Username:   cfg.Auth.Username,
		Password:   cfg.Auth.Password,
	}, nil
}

// buildClientID derives the broker client identifier. Each peripheral
// gets its own ID so the broker never kicks one client for another.
// Without a configured client name a random suffix keeps multiple
// unnamed bridges on the same broker from colliding.
func buildClientID(clientName string, peripheral PeripheralType) string {
	if clientName == "" {
		return fmt.Sprintf("sensebridge-%s_%s", uuid.NewString()[:clientIDEntropy], peripheral)
	}
	return fmt.Sprintf("%s_%s", clientName, peripheral)
}

// parseBrokerAddress parses and normalises a broker address URL.
//
// The scheme is rewritten to the transport scheme paho expects and the
// conventional port is appended when missing, so the rest of the
// package can hand the URL to paho verbatim.
func parseBrokerAddress(address string) (*url.URL, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: address is empty", ErrInvalidBrokerAddress)
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBrokerAddress, err)
	}

	transport, ok := schemeTransport[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBrokerAddress, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrInvalidBrokerAddress, address)
	}

	u.Scheme = transport
	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), defaultPorts[transport])
	}

	return u, nil
}
