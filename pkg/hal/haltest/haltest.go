// Package haltest provides a scripted in-memory hal.Bus for driver tests.
package haltest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

// ErrNoDevice is returned for transfers to an address with no device attached.
var ErrNoDevice = errors.New("haltest: no device at address")

// Device answers the transfers addressed to it. w holds the bytes written by
// the master (nil for a plain read), r the buffer to fill (nil for a plain write).
type Device interface {
	Tx(w, r []byte) error
}

// DeviceFunc adapts a function to Device.
type DeviceFunc func(w, r []byte) error

func (f DeviceFunc) Tx(w, r []byte) error { return f(w, r) }

// Failing returns a device that rejects every transfer with err.
func Failing(err error) Device {
	return DeviceFunc(func(w, r []byte) error { return err })
}

// Op is one recorded bus call.
type Op struct {
	Kind string
	Addr hal.Address
	W    []byte
	R    []byte
}

// Bus routes transfers to attached devices and records every call.
type Bus struct {
	mu      sync.Mutex
	devices map[hal.Address]Device
	ops     []Op
}

func NewBus() *Bus {
	return &Bus{devices: make(map[hal.Address]Device)}
}

// Attach registers dev at addr, replacing any previous device.
func (b *Bus) Attach(addr hal.Address, dev Device) *Bus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.devices[addr] = dev
	return b
}

// Ops returns a copy of the recorded calls.
func (b *Bus) Ops() []Op {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Op, len(b.ops))
	copy(out, b.ops)
	return out
}

// OpsTo returns the recorded calls addressed to addr.
func (b *Bus) OpsTo(addr hal.Address) []Op {
	var out []Op
	for _, op := range b.Ops() {
		if op.Addr == addr {
			out = append(out, op)
		}
	}
	return out
}

// Reset forgets the recorded calls.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = nil
}

func (b *Bus) tx(kind string, addr hal.Address, w, r []byte) error {
	b.mu.Lock()
	dev, ok := b.devices[addr]
	b.mu.Unlock()

	var err error
	if !ok {
		err = fmt.Errorf("%w %s", ErrNoDevice, addr)
	} else {
		err = dev.Tx(w, r)
	}

	op := Op{Kind: kind, Addr: addr, W: clone(w)}
	if err == nil {
		op.R = clone(r)
	}
	b.mu.Lock()
	b.ops = append(b.ops, op)
	b.mu.Unlock()
	return err
}

func (b *Bus) Read(addr hal.Address, buf []byte) error {
	return b.tx("read", addr, nil, buf)
}

func (b *Bus) Write(addr hal.Address, buf []byte) error {
	return b.tx("write", addr, buf, nil)
}

func (b *Bus) WriteRead(addr hal.Address, w []byte, r []byte) error {
	return b.tx("write_read", addr, w, r)
}

// Transaction is recorded as one "transaction" op per write+read segment.
func (b *Bus) Transaction(addr hal.Address, ops []hal.Operation) error {
	return hal.Split(ops, func(w, r []byte) error {
		return b.tx("transaction", addr, w, r)
	})
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Memory is a byte-wide register file: the first written byte selects the
// register pointer, following written bytes are stored with auto-increment,
// and reads return bytes from the pointer onward.
type Memory struct {
	mu   sync.Mutex
	Regs [256]byte
	ptr  uint8
}

func (m *Memory) Tx(w, r []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(w) > 0 {
		m.ptr = w[0]
		for _, v := range w[1:] {
			m.Regs[m.ptr] = v
			m.ptr++
		}
	}
	for i := range r {
		r[i] = m.Regs[m.ptr]
		m.ptr++
	}
	return nil
}

// Reg returns the current content of register reg.
func (m *Memory) Reg(reg uint8) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Regs[reg]
}
