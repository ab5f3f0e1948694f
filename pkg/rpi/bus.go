// Package rpi provides hal.Bus transports for Linux single board computers:
// the kernel i2c-dev driver through periph.io, and a bit-banged master on two
// GPIO lines through gpiod.
package rpi

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

// Bus adapts a periph i2c.Bus to hal.Bus. A write followed by a read is sent
// as one combined transfer with a repeated start.
type Bus struct {
	bus    i2c.Bus
	closer io.Closer
}

// New wraps an already opened periph bus. Closing the returned Bus does not
// close b.
func New(b i2c.Bus) *Bus {
	return &Bus{bus: b}
}

// OpenBus registers the periph host drivers and opens the named bus ("" picks
// the first one found, "1" or "/dev/i2c-1" select one). speed 0 keeps the
// kernel default.
func OpenBus(name string, speed physic.Frequency) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host drivers: %w", err)
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	if speed > 0 {
		if err := bc.SetSpeed(speed); err != nil {
			bc.Close()
			return nil, fmt.Errorf("failed to set i2c bus speed to %s: %w", speed, err)
		}
	}
	return &Bus{bus: bc, closer: bc}, nil
}

func (obj *Bus) Read(addr hal.Address, buf []byte) error {
	return obj.bus.Tx(uint16(addr), nil, buf)
}

func (obj *Bus) Write(addr hal.Address, buf []byte) error {
	return obj.bus.Tx(uint16(addr), buf, nil)
}

func (obj *Bus) WriteRead(addr hal.Address, w []byte, r []byte) error {
	return obj.bus.Tx(uint16(addr), w, r)
}

func (obj *Bus) Transaction(addr hal.Address, ops []hal.Operation) error {
	return hal.Split(ops, func(w, r []byte) error {
		return obj.bus.Tx(uint16(addr), w, r)
	})
}

func (obj *Bus) String() string {
	return obj.bus.String()
}

// Close closes the underlying bus when it was opened by OpenBus.
func (obj *Bus) Close() error {
	if obj.closer == nil {
		return nil
	}
	return obj.closer.Close()
}
