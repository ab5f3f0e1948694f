package module

import "fmt"

type Variant string

const (
	VariantFrx Variant = "frx"
	VariantFtx Variant = "ftx"
)

// Peripheral names the board component an Error originates from.
type Peripheral string

const (
	PeripheralAttenuator  Peripheral = "attenuator"
	PeripheralADC         Peripheral = "adc"
	PeripheralTemperature Peripheral = "temperature"
	PeripheralDigipot     Peripheral = "digipot"
)

// Error tags a sub-peripheral failure with the board and peripheral it came from.
type Error struct {
	Variant    Variant
	Peripheral Peripheral
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Variant, e.Peripheral, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
