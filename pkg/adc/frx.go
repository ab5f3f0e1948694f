package adc

import "github.com/mbalug7/go-rfof/pkg/hal"

const (
	frxVRef = 5.0

	// photodiode DC current monitor resistor
	frxPDIShunt = 5.1
	// current-sense amplifier gain
	frxGain = 100.0
)

// FRX channels
const (
	FrxRF  Channel = 0
	FrxPDI Channel = 1
)

// Frx is the ADC as wired on the fiber receiver board.
type Frx struct {
	drv *Driver
}

func NewFrx(bus hal.Bus) *Frx {
	return &Frx{drv: NewDriver(bus, DefaultAddress)}
}

func (a *Frx) VRef() float64 {
	return frxVRef
}

func (a *Frx) Driver() *Driver {
	return a.drv
}

// Init resets and calibrates the ADC and sets up both monitor channels.
func (a *Frx) Init() error {
	if err := a.drv.Reset(); err != nil {
		return err
	}
	if err := a.drv.Calibrate(); err != nil {
		return err
	}
	return Configure(a, []PinConfig{
		{FrxRF, Analog},
		{FrxPDI, Analog},
	})
}

// PDCurrent returns the DC photodiode current in mA.
func (a *Frx) PDCurrent() (float64, error) {
	i, err := ReadCurrent(a, FrxPDI, frxPDIShunt, frxGain, VoltageAverages)
	if err != nil {
		return 0, err
	}
	return i * 1000.0, nil
}

// RFPower returns the RF power at the detector in dBm.
func (a *Frx) RFPower() (float64, error) {
	return ReadRFPower(a, FrxRF)
}
