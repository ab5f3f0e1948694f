package main

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"periph.io/x/conn/v3/physic"

	"github.com/mbalug7/go-rfof/pkg/config"
	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/module"
	"github.com/mbalug7/go-rfof/pkg/rpi"
	"github.com/mbalug7/go-rfof/pkg/telemetry"
)

// board hides which variant was configured.
type board struct {
	frx *module.Frx
	ftx *module.Ftx
}

func (b *board) Init() error {
	if b.ftx != nil {
		return b.ftx.Init()
	}
	return b.frx.Init()
}

func (b *board) SetAttenuationDB(db float64) error {
	if b.ftx != nil {
		return b.ftx.SetAttenuationDB(db)
	}
	return b.frx.SetAttenuationDB(db)
}

func (b *board) Collect(now time.Time) (telemetry.Snapshot, error) {
	if b.ftx != nil {
		return telemetry.CollectFtx(b.ftx, now)
	}
	return telemetry.CollectFrx(b.frx, now)
}

func newLogger(lc config.LogConfig) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func openBus(bc config.BusConfig) (hal.Bus, error) {
	speed := physic.Frequency(bc.SpeedHz) * physic.Hertz
	if bc.Driver == config.DriverGPIO {
		b, err := rpi.OpenGPIOBus(bc.GPIO.Chip, bc.GPIO.SDA, bc.GPIO.SCL, speed)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	b, err := rpi.OpenBus(bc.Name, speed)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// openHandles opens one handle per name. On failure every handle opened so
// far is closed, and bus itself is closed when no handle was opened to do it.
func openHandles(bus hal.Bus, open func(name string) (*hal.Handle, error), names []string) ([]*hal.Handle, func() error, error) {
	var handles []*hal.Handle
	closeAll := func() error {
		var err error
		for _, h := range handles {
			err = multierr.Append(err, h.Close())
		}
		return err
	}
	for _, name := range names {
		h, err := open(name)
		if err != nil {
			err = fmt.Errorf("failed to open %s bus handle: %w", name, err)
			if len(handles) == 0 {
				if c, ok := bus.(io.Closer); ok {
					return nil, nil, multierr.Append(err, c.Close())
				}
				return nil, nil, err
			}
			return nil, nil, multierr.Append(err, closeAll())
		}
		handles = append(handles, h)
	}
	return handles, closeAll, nil
}

// openBoard opens the bus, hands one shared-bus handle to every peripheral
// and builds the configured board. The returned func closes all handles,
// the last one closes the bus.
func openBoard(cfg *config.Config, logger *zap.Logger) (*board, func() error, error) {
	bus, err := openBus(cfg.Bus)
	if err != nil {
		return nil, nil, err
	}
	shared := hal.NewSharedBus(bus,
		hal.WithLogger(logger.Named("bus")),
		hal.WithTrace(cfg.Bus.Trace))

	names := []string{"attenuator", "adc", "temperature"}
	if cfg.Board == config.BoardFtx {
		names = append(names, "digipot")
	}
	handles, closeAll, err := openHandles(bus, shared.Handle, names)
	if err != nil {
		return nil, nil, err
	}

	opts := []module.Option{
		module.WithLogger(logger.Named(cfg.Board)),
		module.WithTempAddress(hal.Address(cfg.Addresses.Temperature)),
		module.WithAttenuatorSelect(cfg.Addresses.AttenuatorSelect),
		module.WithDigipotSelect(cfg.Addresses.DigipotSelect),
	}
	b := &board{}
	if cfg.Board == config.BoardFtx {
		b.ftx = module.NewFtx(handles[0], handles[1], handles[2], handles[3], opts...)
	} else {
		b.frx = module.NewFrx(handles[0], handles[1], handles[2], opts...)
	}
	return b, closeAll, nil
}
