package temp

import (
	"errors"
	"fmt"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

// ErrInvalidField is returned when a register value holds a field encoding
// the sensor does not define.
var ErrInvalidField = errors.New("invalid register field")

const (
	regTemperature   hal.RegAddress = 0x00
	regConfiguration hal.RegAddress = 0x01
	regEEPROM1       hal.RegAddress = 0x05
	regEEPROM2       hal.RegAddress = 0x06
	regEEPROM3       hal.RegAddress = 0x08
)

// TEMPERATURE register

// Temperature is the signed result of the last completed conversion.
type Temperature struct {
	Raw int16
}

func (obj *Temperature) GetAddress() hal.RegAddress {
	return regTemperature
}

func (obj *Temperature) GetValue() uint16 {
	return uint16(obj.Raw)
}

func (obj *Temperature) SetValue(value uint16) error {
	obj.Raw = int16(value)
	return nil
}

// CONFIGURATION register

type ConversionMode uint8

const (
	Continuous ConversionMode = 0b00
	Shutdown   ConversionMode = 0b01
	OneShot    ConversionMode = 0b11
)

func (m ConversionMode) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case Shutdown:
		return "shutdown"
	case OneShot:
		return "one-shot"
	}
	return fmt.Sprintf("ConversionMode(%d)", uint8(m))
}

func (m ConversionMode) valid() bool {
	return m == Continuous || m == Shutdown || m == OneShot
}

type AveragingMode uint8

const (
	AvgNone AveragingMode = 0b00
	Avg8    AveragingMode = 0b01
	Avg32   AveragingMode = 0b10
	Avg64   AveragingMode = 0b11
)

func (a AveragingMode) String() string {
	switch a {
	case AvgNone:
		return "none"
	case Avg8:
		return "8"
	case Avg32:
		return "32"
	case Avg64:
		return "64"
	}
	return fmt.Sprintf("AveragingMode(%d)", uint8(a))
}

// MaxConversionCycle is the largest 3-bit conversion cycle code.
const MaxConversionCycle = 7

// bit offsets, lsb0
const (
	bitHighAlert  = 15
	bitLowAlert   = 14
	bitDataReady  = 13
	bitEEPROMBusy = 12
	shiftMode     = 10
	shiftConv     = 7
	shiftAvg      = 5
	bitTNA        = 4
	bitPol        = 3
	bitDRAlert    = 2
	bitSoftReset  = 1
)

// Configuration is the TMP117 configuration register. Bit 0 is reserved and
// always packed as zero.
type Configuration struct {
	HighAlert  bool
	LowAlert   bool
	DataReady  bool
	EEPROMBusy bool
	Mode       ConversionMode
	Conv       uint8
	Avg        AveragingMode
	TNA        bool
	Pol        bool
	DRAlert    bool
	SoftReset  bool
}

// DefaultConfiguration is the power-on state of the register, as read back
// after a reset. It is not the word written to request the reset.
func DefaultConfiguration() Configuration {
	return Configuration{Mode: Continuous, Conv: 4, Avg: Avg8}
}

func (obj *Configuration) GetAddress() hal.RegAddress {
	return regConfiguration
}

func (obj *Configuration) GetValue() uint16 {
	var v uint16
	v |= flag(obj.HighAlert, bitHighAlert)
	v |= flag(obj.LowAlert, bitLowAlert)
	v |= flag(obj.DataReady, bitDataReady)
	v |= flag(obj.EEPROMBusy, bitEEPROMBusy)
	v |= uint16(obj.Mode&0b11) << shiftMode
	v |= uint16(obj.Conv&0b111) << shiftConv
	v |= uint16(obj.Avg&0b11) << shiftAvg
	v |= flag(obj.TNA, bitTNA)
	v |= flag(obj.Pol, bitPol)
	v |= flag(obj.DRAlert, bitDRAlert)
	v |= flag(obj.SoftReset, bitSoftReset)
	return v
}

// SetValue unpacks value. The unused conversion mode encoding 0b10 is rejected
// and leaves obj untouched.
func (obj *Configuration) SetValue(value uint16) error {
	mode := ConversionMode((value >> shiftMode) & 0b11)
	if !mode.valid() {
		return fmt.Errorf("%w: conversion mode %#02b", ErrInvalidField, uint8(mode))
	}
	*obj = Configuration{
		HighAlert:  bit(value, bitHighAlert),
		LowAlert:   bit(value, bitLowAlert),
		DataReady:  bit(value, bitDataReady),
		EEPROMBusy: bit(value, bitEEPROMBusy),
		Mode:       mode,
		Conv:       uint8((value >> shiftConv) & 0b111),
		Avg:        AveragingMode((value >> shiftAvg) & 0b11),
		TNA:        bit(value, bitTNA),
		Pol:        bit(value, bitPol),
		DRAlert:    bit(value, bitDRAlert),
		SoftReset:  bit(value, bitSoftReset),
	}
	return nil
}

func flag(set bool, pos uint) uint16 {
	if set {
		return 1 << pos
	}
	return 0
}

func bit(v uint16, pos uint) bool {
	return v&(1<<pos) != 0
}

// EEPROM register

type eepromWord struct {
	Data uint16
}

func (obj *eepromWord) GetValue() uint16 {
	return obj.Data
}

func (obj *eepromWord) SetValue(value uint16) error {
	obj.Data = value
	return nil
}

// EEPROM1 holds bits 47:32 of the unique ID.
type EEPROM1 struct{ eepromWord }

func (obj *EEPROM1) GetAddress() hal.RegAddress { return regEEPROM1 }

// EEPROM2 holds bits 31:16 of the unique ID.
type EEPROM2 struct{ eepromWord }

func (obj *EEPROM2) GetAddress() hal.RegAddress { return regEEPROM2 }

// EEPROM3 holds bits 15:0 of the unique ID.
type EEPROM3 struct{ eepromWord }

func (obj *EEPROM3) GetAddress() hal.RegAddress { return regEEPROM3 }
