package atten

import "github.com/mbalug7/go-rfof/pkg/hal"

// AddrPreamble is the fixed part of the TCA6408A address, the LSB is the ADDR pin.
const AddrPreamble hal.Address = 0b0100000

const (
	regOutputPort    hal.RegAddress = 0x01
	regConfiguration hal.RegAddress = 0x03
)

// tca6408 drives the TCA6408A bus expander strictly as an 8-bit output port.
type tca6408 struct {
	bus  hal.Bus
	addr hal.Address
}

func newTCA6408(bus hal.Bus, addrBit bool) *tca6408 {
	addr := AddrPreamble
	if addrBit {
		addr |= 1
	}
	return &tca6408{bus: bus, addr: addr}
}

// configureOutputs commits every pin to output mode (0 = output).
func (d *tca6408) configureOutputs() error {
	return d.bus.Write(d.addr, []byte{regConfiguration.ToByte(), 0x00})
}

func (d *tca6408) writeWord(word uint8) error {
	return d.bus.Write(d.addr, []byte{regOutputPort.ToByte(), word})
}

func (d *tca6408) readWord() (uint8, error) {
	var buf [1]byte
	if err := d.bus.WriteRead(d.addr, []byte{regOutputPort.ToByte()}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
