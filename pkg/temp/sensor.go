// Package temp reads temperature and the factory unique ID from a TMP117.
//
// The data-ready flag of this part can be cleared by unrelated register reads,
// so the sensor is left free-running in continuous mode and Temp always
// returns the last completed conversion.
package temp

import "github.com/mbalug7/go-rfof/pkg/hal"

// DefaultAddress is the TMP117 address with ADD0 tied to ground.
const DefaultAddress hal.Address = 0x48

// ScaleC is the temperature resolution in degC per LSB.
const ScaleC = 7.8125e-3

type Sensor struct {
	dev *tmp117
}

func New(bus hal.Bus, addr hal.Address) *Sensor {
	return &Sensor{dev: newTMP117(bus, addr)}
}

func (s *Sensor) Address() hal.Address {
	return s.dev.addr
}

// Init soft-resets the sensor and then selects continuous conversion with
// the shortest cycle time and 64 sample averaging.
func (s *Sensor) Init() error {
	if err := s.dev.reset(); err != nil {
		return err
	}
	if err := s.dev.setMode(Continuous); err != nil {
		return err
	}
	if err := s.dev.setConversionCycle(0); err != nil {
		return err
	}
	return s.dev.setAveraging(Avg64)
}

// Temp returns the last conversion in degC.
func (s *Sensor) Temp() (float64, error) {
	var t Temperature
	if err := s.dev.readReg(&t); err != nil {
		return 0, err
	}
	return float64(t.Raw) * ScaleC, nil
}

// UID returns the 48-bit unique ID stored in EEPROM1..3.
func (s *Sensor) UID() (uint64, error) {
	var (
		e1 EEPROM1
		e2 EEPROM2
		e3 EEPROM3
	)
	for _, reg := range []hal.Register{&e1, &e2, &e3} {
		if err := s.dev.readReg(reg); err != nil {
			return 0, err
		}
	}
	return uint64(e1.Data)<<32 | uint64(e2.Data)<<16 | uint64(e3.Data), nil
}

// Configuration reads the configuration register.
func (s *Sensor) Configuration() (Configuration, error) {
	var c Configuration
	err := s.dev.readReg(&c)
	return c, err
}
