// Package influxdb is the optional time-series sink for peripheral
// readings.
//
// When enabled in config, every numeric field of a published reading is
// written to the sensehat_readings measurement, batched and flushed in
// the background. The bridge runs identically with the sink disabled;
// nothing in the publish path waits on InfluxDB.
package influxdb
