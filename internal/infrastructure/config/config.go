package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the SenseHAT bridge.
// All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	SenseHat SenseHatConfig `yaml:"sensehat"`
	Database DatabaseConfig `yaml:"database"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MQTTConfig contains broker connection and topic-naming settings.
type MQTTConfig struct {
	// Address is the broker URL. Supported schemes: mqtt/tcp,
	// mqtts/ssl/tls, ws, wss. The port may be omitted.
	Address string `yaml:"address"`

	// Zone, Room and ClientName are the leading topic segments
	// ({zone}/{room}/{client_name}/{type}/...). Empty segments are
	// simply omitted from the topic.
	Zone       string `yaml:"zone"`
	Room       string `yaml:"room"`
	ClientName string `yaml:"client_name"`

	Auth      MQTTAuthConfig      `yaml:"auth"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTAuthConfig contains optional broker credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig bounds the reconnect backoff (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// SenseHatConfig contains peripheral polling and display settings.
type SenseHatConfig struct {
	// Resolution is the sensor publishing interval in seconds.
	Resolution int `yaml:"resolution"`

	// Rounding is the number of decimal places kept on sensor values.
	Rounding int `yaml:"rounding"`

	// AccelerationMultiplier and GyroscopeMultiplier scale the raw IMU
	// values before rounding (e.g. 9.80665 to report m/s²).
	AccelerationMultiplier float64 `yaml:"acceleration_multiplier"`
	GyroscopeMultiplier    float64 `yaml:"gyroscope_multiplier"`

	// LowLight dims the LED matrix.
	LowLight bool `yaml:"low_light"`

	// WelcomeMessage is scrolled across the LED matrix on startup.
	// Empty disables the welcome scroll.
	WelcomeMessage string `yaml:"welcome_message"`
}

// DatabaseConfig contains SQLite settings for the local reading archive.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains the optional time-series sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SENSEBRIDGE_SECTION_KEY
// For example: SENSEBRIDGE_MQTT_ADDRESS, SENSEBRIDGE_DATABASE_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Address:    "mqtt://localhost:1883",
			ClientName: "sensehat",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		SenseHat: SenseHatConfig{
			Resolution:             60,
			Rounding:               2,
			AccelerationMultiplier: 1.0,
			GyroscopeMultiplier:    1.0,
		},
		Database: DatabaseConfig{
			Path:        "./data/sensebridge.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
// Environment variables follow the pattern: SENSEBRIDGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT
	if v := os.Getenv("SENSEBRIDGE_MQTT_ADDRESS"); v != "" {
		cfg.MQTT.Address = v
	}
	if v := os.Getenv("SENSEBRIDGE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SENSEBRIDGE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Database
	if v := os.Getenv("SENSEBRIDGE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// InfluxDB
	if v := os.Getenv("SENSEBRIDGE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation. Full address parsing (scheme/host) happens in
	// the mqtt package at client construction; here we only catch the
	// obviously unusable.
	if strings.TrimSpace(c.MQTT.Address) == "" {
		errs = append(errs, "mqtt.address is required")
	}
	if c.MQTT.Reconnect.InitialDelay < 0 || c.MQTT.Reconnect.MaxDelay < 0 {
		errs = append(errs, "mqtt.reconnect delays must not be negative")
	}

	// SenseHAT validation
	if c.SenseHat.Resolution <= 0 {
		errs = append(errs, "sensehat.resolution must be a positive number of seconds")
	}
	if c.SenseHat.Rounding < 0 {
		errs = append(errs, "sensehat.rounding must not be negative")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// InfluxDB validation (only when enabled)
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetResolution returns the sensor publishing interval as a Duration.
func (c *Config) GetResolution() time.Duration {
	return time.Duration(c.SenseHat.Resolution) * time.Second
}
