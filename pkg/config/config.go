// Package config loads the YAML configuration of the board control command.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Board     string          `yaml:"board"`
	Bus       BusConfig       `yaml:"bus"`
	Addresses AddressConfig   `yaml:"addresses"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ---- BUS ----

type BusConfig struct {
	Driver  string     `yaml:"driver"`   // periph | gpio
	Name    string     `yaml:"name"`     // periph bus name, "" = first bus
	SpeedHz int        `yaml:"speed_hz"` // 0 = default
	GPIO    GPIOConfig `yaml:"gpio"`
	Trace   bool       `yaml:"trace"` // log every transfer
}

type GPIOConfig struct {
	Chip string `yaml:"chip"`
	SDA  int    `yaml:"sda"`
	SCL  int    `yaml:"scl"`
}

// ---- ADDRESSING ----

type AddressConfig struct {
	AttenuatorSelect bool  `yaml:"attenuator_select"`
	DigipotSelect    bool  `yaml:"digipot_select"`
	Temperature      uint8 `yaml:"temperature"` // 0 = 0x48
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	IntervalMs int          `yaml:"interval_ms"`
	Serial     SerialConfig `yaml:"serial"`
}

type SerialConfig struct {
	Port string `yaml:"port"` // "" = stdout
	Baud int    `yaml:"baud"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

const (
	BoardFrx = "frx"
	BoardFtx = "ftx"

	DriverPeriph = "periph"
	DriverGPIO   = "gpio"
)

// Load reads and decodes path. Unknown keys are rejected.
// The result still has to go through Validate and Normalize.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
