// Package config loads and validates the SenseHAT bridge configuration.
//
// Configuration comes from a single YAML file, with hardcoded defaults
// underneath and SENSEBRIDGE_* environment variables on top. Secrets
// (broker password, InfluxDB token) should be supplied through the
// environment rather than committed to the file.
//
// # Layout
//
//	mqtt:
//	  address: "mqtt://broker.local:1883"   # or ws://broker.local:9001
//	  zone: "home"
//	  room: "office"
//	  client_name: "sensehat"
//	  auth:
//	    username: ""
//	    password: ""
//	  reconnect:
//	    initial_delay: 1
//	    max_delay: 60
//	sensehat:
//	  resolution: 60
//	  rounding: 2
//	  acceleration_multiplier: 1.0
//	  gyroscope_multiplier: 1.0
//	  low_light: true
//	  welcome_message: "hello"
//	database:
//	  path: "./data/sensebridge.db"
//	influxdb:
//	  enabled: false
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stdout"
package config
