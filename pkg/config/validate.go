package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

const (
	minSpeedHz = 1000
	maxSpeedHz = 1000000

	// TMP117 ADD0 strapping options
	minTempAddress = 0x48
	maxTempAddress = 0x4B
)

// Validate checks configuration correctness.
// Zero values mean "use the default" and are accepted.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Board {
	case BoardFrx, BoardFtx:
	case "":
		return fmt.Errorf("board is required (%s or %s)", BoardFrx, BoardFtx)
	default:
		return fmt.Errorf("unknown board %q", cfg.Board)
	}

	// ---- bus ----

	switch cfg.Bus.Driver {
	case "", DriverPeriph:
	case DriverGPIO:
		g := cfg.Bus.GPIO
		if g.SDA < 0 || g.SCL < 0 {
			return fmt.Errorf("bus.gpio: line offsets must not be negative (sda=%d scl=%d)", g.SDA, g.SCL)
		}
		if g.SDA == g.SCL {
			return fmt.Errorf("bus.gpio: sda and scl must be different lines (both %d)", g.SDA)
		}
	default:
		return fmt.Errorf("unknown bus driver %q", cfg.Bus.Driver)
	}

	if s := cfg.Bus.SpeedHz; s != 0 && (s < minSpeedHz || s > maxSpeedHz) {
		return fmt.Errorf(
			"bus.speed_hz %d out of range %d-%d",
			s,
			minSpeedHz,
			maxSpeedHz,
		)
	}

	// ---- addresses ----

	if a := cfg.Addresses.Temperature; a != 0 && (a < minTempAddress || a > maxTempAddress) {
		return fmt.Errorf(
			"addresses.temperature 0x%02x out of range 0x%02x-0x%02x",
			a,
			minTempAddress,
			maxTempAddress,
		)
	}
	if cfg.Addresses.DigipotSelect && cfg.Board != BoardFtx {
		return fmt.Errorf("addresses.digipot_select is only valid for board %s", BoardFtx)
	}

	// ---- telemetry ----

	if cfg.Telemetry.IntervalMs < 0 {
		return fmt.Errorf("telemetry.interval_ms must not be negative")
	}
	if cfg.Telemetry.Serial.Baud < 0 {
		return fmt.Errorf("telemetry.serial.baud must not be negative")
	}

	// ---- log ----

	if cfg.Log.Level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}
