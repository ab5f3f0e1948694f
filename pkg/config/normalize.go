package config

// Defaults filled in by Normalize.
const (
	DefaultSpeedHz     = 100000
	DefaultGPIOChip    = "gpiochip0"
	DefaultTempAddress = 0x48
	DefaultIntervalMs  = 1000
	DefaultBaud        = 115200
	DefaultLogLevel    = "info"
)

// Normalize fills unset values with defaults.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Bus.Driver == "" {
		cfg.Bus.Driver = DriverPeriph
	}
	if cfg.Bus.SpeedHz == 0 {
		cfg.Bus.SpeedHz = DefaultSpeedHz
	}
	if cfg.Bus.Driver == DriverGPIO && cfg.Bus.GPIO.Chip == "" {
		cfg.Bus.GPIO.Chip = DefaultGPIOChip
	}
	if cfg.Addresses.Temperature == 0 {
		cfg.Addresses.Temperature = DefaultTempAddress
	}
	if cfg.Telemetry.IntervalMs == 0 {
		cfg.Telemetry.IntervalMs = DefaultIntervalMs
	}
	if cfg.Telemetry.Serial.Baud == 0 {
		cfg.Telemetry.Serial.Baud = DefaultBaud
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
