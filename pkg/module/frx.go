package module

import (
	"go.uber.org/zap"

	"github.com/mbalug7/go-rfof/pkg/adc"
	"github.com/mbalug7/go-rfof/pkg/atten"
	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/temp"
)

// Frx is the fiber receiver board.
type Frx struct {
	Atten *atten.Attenuator
	ADC   *adc.Frx
	Temp  *temp.Sensor

	log *zap.Logger
}

// NewFrx binds every peripheral to its own bus. The buses are usually
// handles of one hal.SharedBus.
func NewFrx(attenBus, adcBus, tempBus hal.Bus, opts ...Option) *Frx {
	o := newOptions(opts)
	return &Frx{
		Atten: atten.New(attenBus, o.attenSelect),
		ADC:   adc.NewFrx(adcBus),
		Temp:  temp.New(tempBus, o.tempAddr),
		log:   o.log,
	}
}

// Init initializes the attenuator, the ADC and the temperature sensor in
// that order.
func (obj *Frx) Init() error {
	return initAll(obj.log, VariantFrx, []initStep{
		{PeripheralAttenuator, obj.Atten},
		{PeripheralADC, obj.ADC},
		{PeripheralTemperature, obj.Temp},
	})
}

// SetAttenuationDB sets the attenuator to the nearest 0.25 dB step.
func (obj *Frx) SetAttenuationDB(db float64) error {
	if err := setAttenuationDB(obj.Atten, db); err != nil {
		return &Error{Variant: VariantFrx, Peripheral: PeripheralAttenuator, Err: err}
	}
	return nil
}

func (obj *Frx) AttenuationDB() (float64, error) {
	db, err := attenuationDB(obj.Atten)
	if err != nil {
		return 0, &Error{Variant: VariantFrx, Peripheral: PeripheralAttenuator, Err: err}
	}
	return db, nil
}
