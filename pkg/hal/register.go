package hal

type RegAddress uint8

func (r RegAddress) ToByte() byte {
	return byte(r)
}

// Register is a fixed-offset 16-bit register whose value is packed from
// (and unpacked into) typed fields.
type Register interface {
	GetAddress() RegAddress
	GetValue() uint16
	SetValue(value uint16) error
}
