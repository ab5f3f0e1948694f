// Package atten controls the F1958 digital step attenuator through a TCA6408A
// bus expander used in output-only mode.
package atten

import (
	"fmt"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

// latchEnable is wired to expander pin 7 and has to be high on every write.
const latchEnable = 0x80

// Attenuator is the high level attenuator handle.
type Attenuator struct {
	dev *tca6408
}

// New binds an attenuator to bus. addrBit is the level of the expander ADDR pin.
func New(bus hal.Bus, addrBit bool) *Attenuator {
	return &Attenuator{dev: newTCA6408(bus, addrBit)}
}

func (a *Attenuator) Address() hal.Address {
	return a.dev.addr
}

// Init configures the expander as outputs and starts at minimum attenuation.
func (a *Attenuator) Init() error {
	if err := a.dev.configureOutputs(); err != nil {
		return err
	}
	return a.Set(Atten0)
}

// SetRaw writes a raw attenuation word. Bit 7 is always forced high.
func (a *Attenuator) SetRaw(word uint8) error {
	return a.dev.writeWord(word | latchEnable)
}

// Set sets the attenuation.
func (a *Attenuator) Set(att Attenuation) error {
	if !att.Valid() {
		return fmt.Errorf("%w: step %d", ErrInvalidAttenuation, uint8(att))
	}
	return a.SetRaw(uint8(att))
}

// Get reads the attenuation back from the expander output register.
func (a *Attenuator) Get() (Attenuation, error) {
	word, err := a.dev.readWord()
	if err != nil {
		return 0, err
	}
	return fromWord(word), nil
}
