package rpi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/gpiod"
	"periph.io/x/conn/v3/physic"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

var (
	// ErrNack is returned when the addressed device does not acknowledge a byte.
	ErrNack = errors.New("i2c nack")
	// ErrClockStretch is returned when SCL is held low past the stretch timeout.
	ErrClockStretch = errors.New("i2c clock stretch timeout")
)

// DefaultStretchTimeout bounds how long a target may hold SCL low.
const DefaultStretchTimeout = 25 * time.Millisecond

// line is the part of *gpiod.Line the bit-banged master uses.
type line interface {
	SetValue(value int) error
	Value() (int, error)
	Close() error
}

// GPIOBus is an I2C master bit-banged on two open-drain GPIO lines. It is
// meant for boards where the hardware controller is not available. External
// pull-ups are required.
type GPIOBus struct {
	mu      sync.Mutex // one transfer at a time
	chip    *gpiod.Chip
	sda     line
	scl     line
	half    time.Duration
	stretch time.Duration
}

// OpenGPIOBus requests sda and scl offsets on chip as open-drain outputs.
func OpenGPIOBus(chip string, sda, scl int, speed physic.Frequency) (*GPIOBus, error) {
	c, err := gpiod.NewChip(chip, gpiod.WithConsumer("rfof-i2c"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	sdaLine, err := c.RequestLine(sda, gpiod.AsOutput(1), gpiod.AsOpenDrain)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to request SDA GPIO line: %w", err)
	}
	sclLine, err := c.RequestLine(scl, gpiod.AsOutput(1), gpiod.AsOpenDrain)
	if err != nil {
		sdaLine.Close()
		c.Close()
		return nil, fmt.Errorf("failed to request SCL GPIO line: %w", err)
	}
	b := newGPIOBus(sdaLine, sclLine, halfPeriod(speed), DefaultStretchTimeout)
	b.chip = c
	return b, nil
}

func newGPIOBus(sda, scl line, half, stretch time.Duration) *GPIOBus {
	return &GPIOBus{sda: sda, scl: scl, half: half, stretch: stretch}
}

func halfPeriod(speed physic.Frequency) time.Duration {
	if speed <= 0 {
		speed = 100 * physic.KiloHertz
	}
	return speed.Period() / 2
}

func (obj *GPIOBus) Read(addr hal.Address, buf []byte) error {
	return obj.tx(addr, nil, buf)
}

func (obj *GPIOBus) Write(addr hal.Address, buf []byte) error {
	return obj.tx(addr, buf, nil)
}

func (obj *GPIOBus) WriteRead(addr hal.Address, w []byte, r []byte) error {
	return obj.tx(addr, w, r)
}

func (obj *GPIOBus) Transaction(addr hal.Address, ops []hal.Operation) error {
	return hal.Split(ops, func(w, r []byte) error {
		return obj.tx(addr, w, r)
	})
}

func (obj *GPIOBus) String() string {
	return "gpio-i2c"
}

func (obj *GPIOBus) Close() (err error) {
	if err = obj.sda.Close(); err != nil {
		return fmt.Errorf("failed to close SDA line: %w", err)
	}
	if err = obj.scl.Close(); err != nil {
		return fmt.Errorf("failed to close SCL line: %w", err)
	}
	if obj.chip != nil {
		if err = obj.chip.Close(); err != nil {
			return fmt.Errorf("failed to close GPIO chip: %w", err)
		}
	}
	return nil
}

// tx runs [S addr+W w...] [Sr addr+R r...] P. The stop condition is sent even
// when a byte is not acknowledged.
func (obj *GPIOBus) tx(addr hal.Address, w, r []byte) (err error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	defer func() {
		if serr := obj.stop(); err == nil {
			err = serr
		}
	}()

	if len(w) > 0 || len(r) == 0 {
		if err = obj.start(); err != nil {
			return err
		}
		if err = obj.writeByte(uint8(addr) << 1); err != nil {
			return fmt.Errorf("%w: address %s", err, addr)
		}
		for i, b := range w {
			if err = obj.writeByte(b); err != nil {
				return fmt.Errorf("%w: %s byte %d", err, addr, i)
			}
		}
	}
	if len(r) > 0 {
		if err = obj.start(); err != nil {
			return err
		}
		if err = obj.writeByte(uint8(addr)<<1 | 1); err != nil {
			return fmt.Errorf("%w: address %s", err, addr)
		}
		for i := range r {
			if r[i], err = obj.readByte(i < len(r)-1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (obj *GPIOBus) wait() {
	if obj.half > 0 {
		time.Sleep(obj.half)
	}
}

// sclHigh releases SCL and waits for the target to let it go high.
func (obj *GPIOBus) sclHigh() error {
	if err := obj.scl.SetValue(1); err != nil {
		return err
	}
	deadline := time.Now().Add(obj.stretch)
	for {
		v, err := obj.scl.Value()
		if err != nil {
			return err
		}
		if v == 1 {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrClockStretch
		}
		obj.wait()
	}
}

// start also serves as repeated start.
func (obj *GPIOBus) start() error {
	if err := obj.sda.SetValue(1); err != nil {
		return err
	}
	if err := obj.sclHigh(); err != nil {
		return err
	}
	obj.wait()
	if err := obj.sda.SetValue(0); err != nil {
		return err
	}
	obj.wait()
	return obj.scl.SetValue(0)
}

func (obj *GPIOBus) stop() error {
	if err := obj.sda.SetValue(0); err != nil {
		return err
	}
	obj.wait()
	if err := obj.sclHigh(); err != nil {
		return err
	}
	obj.wait()
	if err := obj.sda.SetValue(1); err != nil {
		return err
	}
	obj.wait()
	return nil
}

func (obj *GPIOBus) writeBit(bit int) error {
	if err := obj.sda.SetValue(bit); err != nil {
		return err
	}
	obj.wait()
	if err := obj.sclHigh(); err != nil {
		return err
	}
	obj.wait()
	return obj.scl.SetValue(0)
}

func (obj *GPIOBus) readBit() (int, error) {
	if err := obj.sda.SetValue(1); err != nil {
		return 0, err
	}
	obj.wait()
	if err := obj.sclHigh(); err != nil {
		return 0, err
	}
	obj.wait()
	v, err := obj.sda.Value()
	if err != nil {
		return 0, err
	}
	return v, obj.scl.SetValue(0)
}

// writeByte clocks b out MSB first and checks the acknowledge bit.
func (obj *GPIOBus) writeByte(b uint8) error {
	for i := 7; i >= 0; i-- {
		if err := obj.writeBit(int(b>>uint(i)) & 1); err != nil {
			return err
		}
	}
	nack, err := obj.readBit()
	if err != nil {
		return err
	}
	if nack == 1 {
		return ErrNack
	}
	return nil
}

// readByte clocks a byte in and acknowledges it when more bytes follow.
func (obj *GPIOBus) readByte(ack bool) (uint8, error) {
	var b uint8
	for i := 0; i < 8; i++ {
		v, err := obj.readBit()
		if err != nil {
			return 0, err
		}
		b = b<<1 | uint8(v)
	}
	bit := 1
	if ack {
		bit = 0
	}
	return b, obj.writeBit(bit)
}
