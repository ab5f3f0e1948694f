package digipot

import "github.com/mbalug7/go-rfof/pkg/hal"

// AddrBase is the CAT5171 address with AD0 low.
const AddrBase hal.Address = 0b0101100

// cat5171 is a 256-position digital potentiometer. The instruction byte is
// always zero: no midscale reset, no shutdown.
type cat5171 struct {
	bus  hal.Bus
	addr hal.Address
}

func newCAT5171(bus hal.Bus, ad0 bool) *cat5171 {
	addr := AddrBase
	if ad0 {
		addr |= 1
	}
	return &cat5171{bus: bus, addr: addr}
}

func (d *cat5171) setWiper(word uint8) error {
	return d.bus.Write(d.addr, []byte{0, word})
}

func (d *cat5171) wiper() (uint8, error) {
	var buf [1]byte
	if err := d.bus.Read(d.addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
