// SenseBridge - SenseHAT to MQTT bridge
//
// This is the main entry point for the SenseHAT bridge. It publishes
// periodic environmental and IMU readings, drives the LED matrix from
// inbound MQTT commands, and publishes joystick events, one MQTT
// client per peripheral.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/gray-logic-sense/migrations"

	"github.com/nerrad567/gray-logic-sense/internal/bridge"
	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-sense/internal/readings"
	"github.com/nerrad567/gray-logic-sense/internal/sensehat"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting SenseBridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the local reading archive
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	archive := readings.NewRepository(db.DB)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// SenseHAT peripherals. The simulated device stands in until a
	// hardware-backed implementation lands; see the sensehat package.
	device := sensehat.NewSimDevice()
	sensor := sensehat.NewSensor(device, cfg.SenseHat)
	matrix, err := sensehat.NewLEDMatrix(device, cfg.SenseHat.LowLight)
	if err != nil {
		return fmt.Errorf("initialising led matrix: %w", err)
	}
	joystick := sensehat.NewJoystick(device)
	defer func() {
		log.Info("clearing led matrix")
		if clearErr := matrix.Clear(); clearErr != nil {
			log.Error("error clearing led matrix", "error", clearErr)
		}
	}()

	if welcomeErr := matrix.Welcome(cfg.SenseHat.WelcomeMessage); welcomeErr != nil {
		log.Warn("welcome message failed", "error", welcomeErr)
	}

	// One MQTT client per peripheral
	mqttLog := log.With("component", "mqtt")

	sensorPub, err := mqtt.NewPublisher(cfg.MQTT, mqtt.PeripheralSensor, mqttLog)
	if err != nil {
		return fmt.Errorf("creating sensor publisher: %w", err)
	}
	defer sensorPub.Disable()

	joystickPub, err := mqtt.NewPublisher(cfg.MQTT, mqtt.PeripheralJoystick, mqttLog)
	if err != nil {
		return fmt.Errorf("creating joystick publisher: %w", err)
	}
	defer joystickPub.Disable()

	ledSub, err := mqtt.NewSubscriber(cfg.MQTT, mqtt.PeripheralLED, mqttLog)
	if err != nil {
		return fmt.Errorf("creating led subscriber: %w", err)
	}
	defer ledSub.Disable()

	log.Info("mqtt clients created",
		"sensor_topic", sensorPub.FullTopic(),
		"joystick_topic", joystickPub.FullTopic(),
		"led_topic", ledSub.FullTopic(),
	)

	// Assemble and start the bridge
	bridgeCfg := bridge.Config{
		Sensor:   sensor,
		Matrix:   matrix,
		Joystick: joystick,

		SensorPublisher:   sensorPub,
		JoystickPublisher: joystickPub,
		LEDSubscriber:     ledSub,

		SensorTopic:   sensorPub.FullTopic(),
		JoystickTopic: joystickPub.FullTopic(),
		LEDTopic:      ledSub.FullTopic(),

		Archive:    archive,
		Resolution: cfg.GetResolution(),
		Logger:     log.With("component", "bridge"),
	}
	if influxClient != nil {
		bridgeCfg.Sink = influxClient
	}

	b := bridge.New(bridgeCfg)
	b.Start(ctx)
	defer b.Stop()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls unwind in reverse order: bridge loops first, then
	// the MQTT clients, the display, InfluxDB, and finally the database.

	log.Info("SenseBridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SENSEBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENSEBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
