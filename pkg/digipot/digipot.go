// Package digipot sets the FTX laser bias current through a CAT5171 digital
// potentiometer.
package digipot

import (
	"errors"
	"fmt"
	"math"

	"github.com/mbalug7/go-rfof/pkg/hal"
)

// ErrOutOfRange is returned for a requested current outside 0..MaxCurrentMA.
var ErrOutOfRange = errors.New("laser current out of range")

const (
	// MaxCurrentMA is the current at full-scale wiper position.
	MaxCurrentMA = 50.0
	// FullScale is the highest wiper position.
	FullScale = 255
)

// Digipot is the laser current source.
type Digipot struct {
	dev *cat5171
}

func New(bus hal.Bus, ad0 bool) *Digipot {
	return &Digipot{dev: newCAT5171(bus, ad0)}
}

func (d *Digipot) Address() hal.Address {
	return d.dev.addr
}

// Init does nothing. The wiper keeps its last position until the first Set.
func (d *Digipot) Init() error {
	return nil
}

func (d *Digipot) SetRaw(word uint8) error {
	return d.dev.setWiper(word)
}

func (d *Digipot) GetRaw() (uint8, error) {
	return d.dev.wiper()
}

// Set programs the closest wiper position to current (mA).
func (d *Digipot) Set(current float64) error {
	raw, err := RawFromCurrent(current)
	if err != nil {
		return err
	}
	return d.SetRaw(raw)
}

// Get returns the programmed current in mA.
func (d *Digipot) Get() (float64, error) {
	raw, err := d.GetRaw()
	if err != nil {
		return 0, err
	}
	return CurrentFromRaw(raw), nil
}

// RawFromCurrent maps mA to the nearest wiper position.
func RawFromCurrent(current float64) (uint8, error) {
	if math.IsNaN(current) || current < 0 || current > MaxCurrentMA {
		return 0, fmt.Errorf("%w: %.3f mA", ErrOutOfRange, current)
	}
	return uint8(math.Round(current * FullScale / MaxCurrentMA)), nil
}

func CurrentFromRaw(raw uint8) float64 {
	return float64(raw) * MaxCurrentMA / FullScale
}
