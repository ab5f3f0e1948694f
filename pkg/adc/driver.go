package adc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

var (
	ErrInvalidChannel = errors.New("invalid adc channel")
	ErrInvalidAverage = errors.New("invalid sample count")
)

// Opcodes prefixed to every TLA2528 command.
const (
	opSingleRegRead  byte = 0b0001_0000
	opSingleRegWrite byte = 0b0000_1000
	opSetBit         byte = 0b0001_1000
	opClearBit       byte = 0b0010_0000
)

const (
	regSystemStatus hal.RegAddress = 0x00
	regGeneralCfg   hal.RegAddress = 0x01
	regPinCfg       hal.RegAddress = 0x05
	regGpioCfg      hal.RegAddress = 0x07
	regGpoDriveCfg  hal.RegAddress = 0x09
	regGpoValue     hal.RegAddress = 0x0B
	regChannelSel   hal.RegAddress = 0x11
)

const (
	// NumChannels is the number of analog/GPIO pins.
	NumChannels = 8
	// MaxAverages caps the samples read by one averaged conversion.
	MaxAverages = 256
	// FullScale is the largest 12-bit conversion code.
	FullScale = 4095
)

// Channel is an ADC pin index, 0-7.
type Channel uint8

func (c Channel) valid() bool {
	return c < NumChannels
}

type PinMode int

const (
	Analog PinMode = iota
	DigitalOut
)

func (m PinMode) String() string {
	switch m {
	case Analog:
		return "analog"
	case DigitalOut:
		return "digital-out"
	}
	return fmt.Sprintf("PinMode(%d)", int(m))
}

// PinConfig pairs a channel with the mode it must be configured in.
type PinConfig struct {
	Channel Channel
	Mode    PinMode
}

// Driver is a reduced TLA2528 driver: single-register access, bit set/clear,
// pin configuration and manual-mode averaged conversions.
type Driver struct {
	bus  hal.Bus
	addr hal.Address
}

func NewDriver(bus hal.Bus, addr hal.Address) *Driver {
	return &Driver{bus: bus, addr: addr}
}

func (d *Driver) Address() hal.Address {
	return d.addr
}

// ReadRegister returns the content of a single register.
func (d *Driver) ReadRegister(reg hal.RegAddress) (uint8, error) {
	var buf [1]byte
	if err := d.bus.WriteRead(d.addr, []byte{opSingleRegRead, reg.ToByte()}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Driver) writeReg(reg hal.RegAddress, v uint8) error {
	return d.bus.Write(d.addr, []byte{opSingleRegWrite, reg.ToByte(), v})
}

func (d *Driver) setBit(reg hal.RegAddress, bit uint8) error {
	return d.bus.Write(d.addr, []byte{opSetBit, reg.ToByte(), 1 << bit})
}

func (d *Driver) clearBit(reg hal.RegAddress, bit uint8) error {
	return d.bus.Write(d.addr, []byte{opClearBit, reg.ToByte(), 1 << bit})
}

// Reset triggers a full device reset.
func (d *Driver) Reset() error {
	return d.setBit(regGeneralCfg, 0)
}

// Calibrate starts an offset calibration.
func (d *Driver) Calibrate() error {
	return d.setBit(regSystemStatus, 0)
}

// SetPinMode configures one channel. Analog only clears the pin-function bit;
// DigitalOut sets the pin-function, GPIO direction and push-pull drive bits in
// that order.
func (d *Driver) SetPinMode(ch Channel, mode PinMode) error {
	if !ch.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	bit := uint8(ch)
	switch mode {
	case Analog:
		return d.clearBit(regPinCfg, bit)
	case DigitalOut:
		if err := d.setBit(regPinCfg, bit); err != nil {
			return err
		}
		if err := d.setBit(regGpioCfg, bit); err != nil {
			return err
		}
		return d.setBit(regGpoDriveCfg, bit)
	}
	return fmt.Errorf("unsupported pin mode: %s", mode)
}

// ReadChannelAverage selects ch and returns the integer mean of up to n
// conversions (n above MaxAverages reads MaxAverages). The channel has to be
// configured Analog beforehand, that is not checked here.
func (d *Driver) ReadChannelAverage(ch Channel, n int) (uint16, error) {
	if !ch.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAverage, n)
	}
	if n > MaxAverages {
		n = MaxAverages
	}
	if err := d.writeReg(regChannelSel, uint8(ch)); err != nil {
		return 0, err
	}
	return d.readAndAverage(n)
}

func (d *Driver) readAndAverage(n int) (uint16, error) {
	var raw [MaxAverages * 2]byte
	buf := raw[:n*2]
	if err := d.bus.Read(d.addr, buf); err != nil {
		return 0, err
	}
	var samples [MaxAverages]uint16
	for i := 0; i < n; i++ {
		// 12-bit code is left aligned in the 16-bit frame
		samples[i] = binary.BigEndian.Uint16(buf[i*2:]) >> 4
	}
	return IntegerAverage(samples[:n]), nil
}

// DigitalWrite drives a DigitalOut channel high or low.
func (d *Driver) DigitalWrite(ch Channel, set bool) error {
	if !ch.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if set {
		return d.setBit(regGpoValue, uint8(ch))
	}
	return d.clearBit(regGpoValue, uint8(ch))
}
