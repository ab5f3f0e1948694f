package module

import (
	"go.uber.org/zap"

	"github.com/mbalug7/go-rfof/pkg/adc"
	"github.com/mbalug7/go-rfof/pkg/atten"
	"github.com/mbalug7/go-rfof/pkg/digipot"
	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/temp"
)

// Ftx is the fiber transmitter board.
type Ftx struct {
	Atten   *atten.Attenuator
	ADC     *adc.Ftx
	Temp    *temp.Sensor
	Digipot *digipot.Digipot

	log *zap.Logger
}

func NewFtx(attenBus, adcBus, tempBus, digipotBus hal.Bus, opts ...Option) *Ftx {
	o := newOptions(opts)
	return &Ftx{
		Atten:   atten.New(attenBus, o.attenSelect),
		ADC:     adc.NewFtx(adcBus),
		Temp:    temp.New(tempBus, o.tempAddr),
		Digipot: digipot.New(digipotBus, o.digipotSelect),
		log:     o.log,
	}
}

// Init initializes the attenuator, the ADC and the temperature sensor in
// that order. The digipot keeps its stored wiper position.
func (obj *Ftx) Init() error {
	return initAll(obj.log, VariantFtx, []initStep{
		{PeripheralAttenuator, obj.Atten},
		{PeripheralADC, obj.ADC},
		{PeripheralTemperature, obj.Temp},
	})
}

func (obj *Ftx) SetAttenuationDB(db float64) error {
	if err := setAttenuationDB(obj.Atten, db); err != nil {
		return &Error{Variant: VariantFtx, Peripheral: PeripheralAttenuator, Err: err}
	}
	return nil
}

func (obj *Ftx) AttenuationDB() (float64, error) {
	db, err := attenuationDB(obj.Atten)
	if err != nil {
		return 0, &Error{Variant: VariantFtx, Peripheral: PeripheralAttenuator, Err: err}
	}
	return db, nil
}

// SetLaserCurrent programs the laser bias current in mA (0-50).
func (obj *Ftx) SetLaserCurrent(mA float64) error {
	if err := obj.Digipot.Set(mA); err != nil {
		return &Error{Variant: VariantFtx, Peripheral: PeripheralDigipot, Err: err}
	}
	obj.log.Debug("laser current set", zap.Float64("mA", mA))
	return nil
}

// EnableLNA switches the LNA bias.
func (obj *Ftx) EnableLNA(enable bool) error {
	if err := obj.ADC.EnableLNA(enable); err != nil {
		return &Error{Variant: VariantFtx, Peripheral: PeripheralADC, Err: err}
	}
	obj.log.Debug("lna bias switched", zap.Bool("enabled", enable))
	return nil
}
