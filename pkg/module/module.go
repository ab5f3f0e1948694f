// Package module assembles the FRX and FTX fiber boards from their
// peripherals and sequences their initialization.
package module

import (
	"go.uber.org/zap"

	"github.com/mbalug7/go-rfof/pkg/atten"
	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/temp"
)

type options struct {
	log           *zap.Logger
	tempAddr      hal.Address
	attenSelect   bool
	digipotSelect bool
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithTempAddress overrides the TMP117 address (0x48 by default).
func WithTempAddress(addr hal.Address) Option {
	return func(o *options) {
		o.tempAddr = addr
	}
}

// WithAttenuatorSelect sets the level of the expander address pin. It is
// wired low on both boards.
func WithAttenuatorSelect(high bool) Option {
	return func(o *options) {
		o.attenSelect = high
	}
}

// WithDigipotSelect sets the level of the digipot AD0 pin (FTX only).
func WithDigipotSelect(high bool) Option {
	return func(o *options) {
		o.digipotSelect = high
	}
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop(), tempAddr: temp.DefaultAddress}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type initStep struct {
	peripheral Peripheral
	dev        hal.Peripheral
}

// initAll initializes steps in order and stops at the first failure.
func initAll(log *zap.Logger, variant Variant, steps []initStep) error {
	for _, s := range steps {
		log.Debug("initializing peripheral",
			zap.String("variant", string(variant)),
			zap.String("peripheral", string(s.peripheral)))
		if err := s.dev.Init(); err != nil {
			log.Error("peripheral init failed",
				zap.String("variant", string(variant)),
				zap.String("peripheral", string(s.peripheral)),
				zap.Error(err))
			return &Error{Variant: variant, Peripheral: s.peripheral, Err: err}
		}
	}
	log.Info("board initialized", zap.String("variant", string(variant)))
	return nil
}

func setAttenuationDB(a *atten.Attenuator, db float64) error {
	step, err := atten.AttenuationFromDB(db)
	if err != nil {
		return err
	}
	return a.Set(step)
}

func attenuationDB(a *atten.Attenuator) (float64, error) {
	step, err := a.Get()
	if err != nil {
		return 0, err
	}
	return step.DB(), nil
}
