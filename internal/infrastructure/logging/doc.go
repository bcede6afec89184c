// Package logging provides structured logging for the SenseHAT bridge.
//
// It wraps Go's standard log/slog package so every component logs in
// the same shape, with service and version attached to each entry.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("sensor published", "topic", topic)
//	logger.Error("archive write failed", "error", err)
//
// Never log secrets: broker passwords and InfluxDB tokens stay out of
// log fields.
package logging
