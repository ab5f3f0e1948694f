//go:build pico
// +build pico

// Package pico runs the board drivers on a Raspberry Pi Pico, on top of the
// RP2040 hardware I2C controller.
package pico

import (
	"fmt"
	"machine"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

// Bus adapts machine.I2C to hal.Bus.
type Bus struct {
	i2c *machine.I2C
}

// NewBus configures i2c on the given pins. frequency is in Hz, 0 keeps the
// machine default.
func NewBus(i2c *machine.I2C, sda, scl machine.Pin, frequency uint32) (*Bus, error) {
	err := i2c.Configure(machine.I2CConfig{
		Frequency: frequency,
		SDA:       sda,
		SCL:       scl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure I2C: %w", err)
	}
	return &Bus{i2c: i2c}, nil
}

func (obj *Bus) Read(addr hal.Address, buf []byte) error {
	return obj.i2c.Tx(uint16(addr), nil, buf)
}

func (obj *Bus) Write(addr hal.Address, buf []byte) error {
	return obj.i2c.Tx(uint16(addr), buf, nil)
}

func (obj *Bus) WriteRead(addr hal.Address, w []byte, r []byte) error {
	return obj.i2c.Tx(uint16(addr), w, r)
}

func (obj *Bus) Transaction(addr hal.Address, ops []hal.Operation) error {
	return hal.Split(ops, func(w, r []byte) error {
		return obj.i2c.Tx(uint16(addr), w, r)
	})
}
