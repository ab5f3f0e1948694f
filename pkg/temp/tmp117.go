package temp

import (
	"encoding/binary"
	"fmt"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

type tmp117 struct {
	bus  hal.Bus
	addr hal.Address
}

func newTMP117(bus hal.Bus, addr hal.Address) *tmp117 {
	return &tmp117{bus: bus, addr: addr}
}

// readReg fills reg from the two big-endian bytes at its address.
func (d *tmp117) readReg(reg hal.Register) error {
	var raw [2]byte
	if err := d.bus.WriteRead(d.addr, []byte{reg.GetAddress().ToByte()}, raw[:]); err != nil {
		return err
	}
	return reg.SetValue(binary.BigEndian.Uint16(raw[:]))
}

// writeReg sends the pointer byte and the packed value as one transaction.
func (d *tmp117) writeReg(reg hal.Register) error {
	var raw [2]byte
	binary.BigEndian.PutUint16(raw[:], reg.GetValue())
	return d.bus.Transaction(d.addr, []hal.Operation{
		hal.WriteOp([]byte{reg.GetAddress().ToByte()}),
		hal.WriteOp(raw[:]),
	})
}

// resetConfiguration is the word written to trigger a soft reset: every
// field at its zero value except averaging, which stays at the 8 sample
// default.
func resetConfiguration() Configuration {
	return Configuration{Avg: Avg8, SoftReset: true}
}

func (d *tmp117) reset() error {
	conf := resetConfiguration()
	return d.writeReg(&conf)
}

// modifyConfig reads the configuration, applies fn and writes the whole
// register back.
func (d *tmp117) modifyConfig(fn func(c *Configuration)) error {
	var conf Configuration
	if err := d.readReg(&conf); err != nil {
		return err
	}
	fn(&conf)
	return d.writeReg(&conf)
}

func (d *tmp117) setMode(mode ConversionMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: conversion mode %d", ErrInvalidField, uint8(mode))
	}
	return d.modifyConfig(func(c *Configuration) { c.Mode = mode })
}

func (d *tmp117) setConversionCycle(cc uint8) error {
	if cc > MaxConversionCycle {
		return fmt.Errorf("%w: conversion cycle %d", ErrInvalidField, cc)
	}
	return d.modifyConfig(func(c *Configuration) { c.Conv = cc })
}

func (d *tmp117) setAveraging(avg AveragingMode) error {
	if avg > Avg64 {
		return fmt.Errorf("%w: averaging mode %d", ErrInvalidField, uint8(avg))
	}
	return d.modifyConfig(func(c *Configuration) { c.Avg = avg })
}
