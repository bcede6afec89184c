package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-sense/internal/sensehat"
)

// commandPollInterval is how often the LED loop drains the inbound
// command queue. Commands are human-initiated, so sub-second latency
// is plenty.
const commandPollInterval = 250 * time.Millisecond

// Publisher is the outbound MQTT surface the bridge needs. Satisfied
// by *mqtt.Publisher.
type Publisher interface {
	Publish(reading mqtt.Reading) error
}

// Subscriber is the inbound MQTT surface the bridge needs. Satisfied
// by *mqtt.Subscriber.
type Subscriber interface {
	DecodedMessage() (mqtt.Reading, error)
}

// Archive persists readings locally. Satisfied by
// *readings.Repository.
type Archive interface {
	Record(ctx context.Context, peripheral, topic string, reading map[string]any) error
}

// Sink forwards numeric reading fields to a time-series store. Writes
// are asynchronous; failures surface through the sink's own error
// callback. Satisfied by *influxdb.Client.
type Sink interface {
	WriteReading(peripheral, topic string, reading map[string]any)
}

// Logger is the subset of the logging package the bridge uses.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config wires the bridge's collaborators together. Archive and Sink
// are optional; nil disables that fan-out.
type Config struct {
	Sensor   *sensehat.Sensor
	Matrix   *sensehat.LEDMatrix
	Joystick *sensehat.Joystick

	SensorPublisher   Publisher
	JoystickPublisher Publisher
	LEDSubscriber     Subscriber

	SensorTopic   string
	JoystickTopic string
	LEDTopic      string

	Archive Archive
	Sink    Sink

	Resolution time.Duration
	Logger     Logger
}

// Bridge runs the three peripheral loops: periodic sensor snapshots
// out, LED commands in, joystick events out. Each loop is its own
// goroutine; Stop waits for all of them.
type Bridge struct {
	cfg Config

	cancel   context.CancelFunc
	done     chan struct{}
	wg       sync.WaitGroup
	startMu  sync.Mutex
	started  bool
	stopOnce sync.Once
}

// New creates a bridge. Call Start to begin the loops.
func New(cfg Config) *Bridge {
	if cfg.Resolution <= 0 {
		cfg.Resolution = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return &Bridge{
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// nopLogger discards everything. Used when no logger is wired.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Start launches the peripheral loops. It returns immediately; the
// loops run until Stop or until ctx is cancelled. Calling Start twice
// is a no-op.
func (b *Bridge) Start(ctx context.Context) {
	b.startMu.Lock()
	defer b.startMu.Unlock()
	if b.started {
		return
	}
	b.started = true

	ctx, b.cancel = context.WithCancel(ctx)

	if b.cfg.Sensor != nil && b.cfg.SensorPublisher != nil {
		b.wg.Add(1)
		go b.sensorLoop(ctx)
	}
	if b.cfg.Matrix != nil && b.cfg.LEDSubscriber != nil {
		b.wg.Add(1)
		go b.ledLoop(ctx)
	}
	if b.cfg.Joystick != nil && b.cfg.JoystickPublisher != nil {
		b.wg.Add(1)
		go b.joystickLoop(ctx)
	}

	go func() {
		b.wg.Wait()
		close(b.done)
	}()

	b.cfg.Logger.Info("bridge started",
		"resolution", b.cfg.Resolution.String(),
	)
}

// Stop cancels the loops and blocks until they have drained.
// Idempotent.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.startMu.Lock()
		started := b.started
		cancel := b.cancel
		b.startMu.Unlock()

		if !started {
			return
		}
		cancel()
		<-b.done
		b.cfg.Logger.Info("bridge stopped")
	})
}

// Done is closed once every loop has exited.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// sensorLoop snapshots the sensors at the configured resolution and
// publishes each reading. The first snapshot is taken immediately so
// a fresh start produces data without waiting a full period.
func (b *Bridge) sensorLoop(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.Resolution)
	defer ticker.Stop()

	b.publishSnapshot(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.publishSnapshot(ctx)
		}
	}
}

func (b *Bridge) publishSnapshot(ctx context.Context) {
	reading, err := b.cfg.Sensor.Read()
	if err != nil {
		b.cfg.Logger.Error("sensor read failed", "error", err)
		return
	}

	if err := b.cfg.SensorPublisher.Publish(reading); err != nil {
		b.cfg.Logger.Error("sensor publish failed", "error", err)
		return
	}
	b.cfg.Logger.Debug("sensor reading published",
		"topic", b.cfg.SensorTopic,
		"fields", len(reading),
	)

	b.fanOut(ctx, "sensor", b.cfg.SensorTopic, reading)
}

// ledLoop drains the inbound command queue and applies each command
// to the matrix. Malformed commands are logged and skipped; they never
// stop the loop.
func (b *Bridge) ledLoop(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(commandPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.drainCommands(ctx)
		}
	}
}

func (b *Bridge) drainCommands(ctx context.Context) {
	for {
		cmd, err := b.cfg.LEDSubscriber.DecodedMessage()
		if err != nil {
			b.cfg.Logger.Warn("discarding undecodable led command", "error", err)
			continue
		}
		if len(cmd) == 0 {
			return
		}

		if err := b.cfg.Matrix.Apply(cmd); err != nil {
			b.cfg.Logger.Warn("led command rejected", "error", err)
			continue
		}
		b.cfg.Logger.Debug("led command applied",
			"topic", b.cfg.LEDTopic,
			"fields", len(cmd),
		)

		b.fanOut(ctx, "led", b.cfg.LEDTopic, cmd)
	}
}

// joystickLoop publishes one reading per stick event.
func (b *Bridge) joystickLoop(ctx context.Context) {
	defer b.wg.Done()

	for {
		event, ok := b.cfg.Joystick.WaitEvent(ctx)
		if !ok {
			return
		}

		reading := sensehat.EventReading(event)
		if err := b.cfg.JoystickPublisher.Publish(reading); err != nil {
			b.cfg.Logger.Error("joystick publish failed", "error", err)
			continue
		}
		b.cfg.Logger.Debug("joystick event published",
			"direction", reading["direction"],
			"action", reading["action"],
		)

		b.fanOut(ctx, "joystick", b.cfg.JoystickTopic, reading)
	}
}

// fanOut mirrors a published reading to the local archive and the
// time-series sink. Both are best effort; a storage failure never
// blocks publishing.
func (b *Bridge) fanOut(ctx context.Context, peripheral, topic string, reading map[string]any) {
	if b.cfg.Archive != nil {
		if err := b.cfg.Archive.Record(ctx, peripheral, topic, reading); err != nil {
			b.cfg.Logger.Warn("archive write failed", "peripheral", peripheral, "error", err)
		}
	}
	if b.cfg.Sink != nil {
		b.cfg.Sink.WriteReading(peripheral, topic, reading)
	}
}
