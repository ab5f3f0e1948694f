package adc

import "github.com/mbalug7/go-rfof/pkg/hal"

const ftxVRef = 5.0

// shunt resistors (ohm)
const (
	ftxLDIShunt  = 1.0
	ftxPDIShunt  = 100.0
	ftxLNAIShunt = 0.5
)

// current-sense amplifier gains
const (
	ftxLDIGain  = 100.0
	ftxPDIGain  = 100.0
	ftxLNAIGain = 100.0
)

// divider gains
const (
	ftxVDDAGain = 0.5
	ftxVLNAGain = 0.25
	ftxVDDGain  = 0.5
)

// FTX channels
const (
	FtxVDDA  Channel = 0
	FtxPDI   Channel = 1
	FtxRF    Channel = 2
	FtxLNAI  Channel = 3
	FtxLDI   Channel = 4
	FtxVLNA  Channel = 5
	FtxLNAEn Channel = 6
	FtxVDD   Channel = 7
)

// Ftx is the ADC as wired on the fiber transmitter board.
type Ftx struct {
	drv *Driver
}

func NewFtx(bus hal.Bus) *Ftx {
	return &Ftx{drv: NewDriver(bus, DefaultAddress)}
}

func (a *Ftx) VRef() float64 {
	return ftxVRef
}

func (a *Ftx) Driver() *Driver {
	return a.drv
}

// Init resets and calibrates the ADC, all channels are analog except the LNA bias enable.
func (a *Ftx) Init() error {
	if err := a.drv.Reset(); err != nil {
		return err
	}
	if err := a.drv.Calibrate(); err != nil {
		return err
	}
	return Configure(a, []PinConfig{
		{FtxVDDA, Analog},
		{FtxPDI, Analog},
		{FtxRF, Analog},
		{FtxLNAI, Analog},
		{FtxLDI, Analog},
		{FtxVLNA, Analog},
		{FtxLNAEn, DigitalOut},
		{FtxVDD, Analog},
	})
}

// AnalogVoltage returns the analog supply (VDDA) in V.
func (a *Ftx) AnalogVoltage() (float64, error) {
	return ReadVoltage(a, FtxVDDA, ftxVDDAGain, VoltageAverages)
}

// PDCurrent returns the DC monitor photodiode current in uA.
func (a *Ftx) PDCurrent() (float64, error) {
	i, err := ReadCurrent(a, FtxPDI, ftxPDIShunt, ftxPDIGain, VoltageAverages)
	if err != nil {
		return 0, err
	}
	return i * 1e6, nil
}

// RFPower returns the RF power at the detector in dBm.
func (a *Ftx) RFPower() (float64, error) {
	return ReadRFPower(a, FtxRF)
}

// LNACurrent returns the LNA bias current in mA.
func (a *Ftx) LNACurrent() (float64, error) {
	i, err := ReadCurrent(a, FtxLNAI, ftxLNAIShunt, ftxLNAIGain, VoltageAverages)
	if err != nil {
		return 0, err
	}
	return i * 1000.0, nil
}

// LDCurrent returns the laser diode current in mA.
func (a *Ftx) LDCurrent() (float64, error) {
	i, err := ReadCurrent(a, FtxLDI, ftxLDIShunt, ftxLDIGain, VoltageAverages)
	if err != nil {
		return 0, err
	}
	return i * 1000.0, nil
}

// LNAVoltage returns the LNA supply in V.
func (a *Ftx) LNAVoltage() (float64, error) {
	return ReadVoltage(a, FtxVLNA, ftxVLNAGain, VoltageAverages)
}

// DigitalVoltage returns the digital supply (VDD) in V.
func (a *Ftx) DigitalVoltage() (float64, error) {
	return ReadVoltage(a, FtxVDD, ftxVDDGain, VoltageAverages)
}

// EnableLNA switches the LNA bias load switch.
func (a *Ftx) EnableLNA(enable bool) error {
	return a.drv.DigitalWrite(FtxLNAEn, enable)
}
