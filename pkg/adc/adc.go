// Package adc drives the TLA2528 8-channel ADC/GPIO on the FRX and FTX boards
// and converts its codes into the physical readings each board exposes.
package adc

// DefaultAddress is the hard-wired TLA2528 address on both boards.
const DefaultAddress = 0x10

// Sample counts per averaged reading.
const (
	RFAverages      = 64
	VoltageAverages = 64
)

// Variant is what a board specific ADC wrapper provides to the shared
// configuration and conversion helpers.
type Variant interface {
	// VRef is the analog reference voltage in V.
	VRef() float64
	// Driver gives access to the raw TLA2528 driver.
	Driver() *Driver
}

// Configure applies every pin configuration in order.
func Configure(v Variant, pins []PinConfig) error {
	for _, p := range pins {
		if err := v.Driver().SetPinMode(p.Channel, p.Mode); err != nil {
			return err
		}
	}
	return nil
}

// ReadFraction reads an analog channel as a value from 0 to 1.
func ReadFraction(v Variant, ch Channel, avgs int) (float64, error) {
	raw, err := v.Driver().ReadChannelAverage(ch, avgs)
	if err != nil {
		return 0, err
	}
	return float64(raw) / FullScale, nil
}

// ReadCurrent reads a current-sense channel behind a shunt resistor (ohm) and
// a current-sense amplifier with the given gain. Result is in A.
func ReadCurrent(v Variant, ch Channel, shunt, gain float64, avgs int) (float64, error) {
	raw, err := ReadFraction(v, ch, avgs)
	if err != nil {
		return 0, err
	}
	return CurrentFromFraction(raw, v.VRef(), shunt, gain), nil
}

// ReadVoltage reads a channel behind an amplifier or divider with the given gain. Result is in V.
func ReadVoltage(v Variant, ch Channel, gain float64, avgs int) (float64, error) {
	raw, err := ReadFraction(v, ch, avgs)
	if err != nil {
		return 0, err
	}
	return VoltageFromFraction(raw, v.VRef(), gain), nil
}

// ReadRFPower reads the RF power detector channel in dBm.
func ReadRFPower(v Variant, ch Channel) (float64, error) {
	raw, err := ReadFraction(v, ch, RFAverages)
	if err != nil {
		return 0, err
	}
	return RFPowerFromFraction(raw), nil
}

func CurrentFromFraction(raw, vref, shunt, gain float64) float64 {
	return (raw * vref) / (gain * shunt)
}

func VoltageFromFraction(raw, vref, gain float64) float64 {
	return (raw * vref) / gain
}

// RFPowerFromFraction is the power detector calibration shared by both boards.
func RFPowerFromFraction(raw float64) float64 {
	return 17.74*(raw*5.0) - 55.0
}
