package mqtt

import "strings"

// Role suffixes appended to the base topic. Publishers report state on
// the status leaf; subscribers listen for commands on the cmd leaf.
// A client's role, and therefore its suffix, is fixed for its lifetime.
const (
	// StatusSuffix is the final topic segment for publishers.
	StatusSuffix = "status"

	// CommandSuffix is the final topic segment for subscribers.
	CommandSuffix = "cmd"
)

// qosAtMostOnce is the only delivery level this layer uses, for both
// publish and subscribe. Retained publishes at QoS 0 give new
// subscribers the last known value without acknowledgement overhead.
const qosAtMostOnce byte = 0

// BuildTopic composes the hierarchical base topic for a client from its
// identity segments, in the given order, omitting empty segments:
//
//	{zone}/{room}/{client_name}/{type}
//
// The function is pure and has no failure mode: all-empty input yields
// an empty string, which is accepted since callers always supply at
// least the peripheral type. Two clients with identical segments build
// identical topics; the broker treats them as the same logical endpoint,
// which is accepted behaviour rather than prevented here.
func BuildTopic(zone, room, clientName string, peripheral PeripheralType) string {
	segments := make([]string, 0, 4)
	for _, s := range []string{zone, room, clientName, string(peripheral)} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, "/")
}

// Topic returns the base topic for this identity.
func (id Identity) Topic() string {
	return BuildTopic(id.Zone, id.Room, id.ClientName, id.Peripheral)
}

// fullTopic appends the role suffix to the base topic.
func fullTopic(base, suffix string) string {
	return base + "/" + suffix
}
