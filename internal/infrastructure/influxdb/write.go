package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteReading records the numeric fields of a peripheral reading as a
// single point in the sensehat_readings measurement, tagged with the
// peripheral type and topic.
//
// Non-numeric fields (joystick direction strings, LED command text) are
// dropped here: InfluxDB is the numeric history, the SQLite archive
// keeps the full payloads. Readings with no numeric fields produce no
// point. The write is non-blocking; data is batched and sent
// asynchronously.
//
// Parameters:
//   - peripheral: Peripheral type ("sensor", "led", "joystick")
//   - topic: The MQTT topic the reading was published on
//   - reading: The reading's field map
func (c *Client) WriteReading(peripheral, topic string, reading map[string]any) {
	if !c.IsConnected() {
		return
	}

	fields := numericFields(reading)
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"sensehat_readings",
		map[string]string{
			"peripheral": peripheral,
			"topic":      topic,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// numericFields extracts the fields of a reading that InfluxDB can
// store as values. JSON decoding yields float64 for every number, but
// readings built in-process may carry native int or bool values too.
func numericFields(reading map[string]any) map[string]any {
	fields := make(map[string]any, len(reading))
	for name, value := range reading {
		switch v := value.(type) {
		case float64:
			fields[name] = v
		case float32:
			fields[name] = float64(v)
		case int:
			fields[name] = v
		case int64:
			fields[name] = v
		case bool:
			fields[name] = v
		}
	}
	return fields
}
