// Package telemetry collects the monitoring readings of a board into
// snapshots and streams them as JSON lines.
package telemetry

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/mbalug7/go-rfof/pkg/module"
)

// Snapshot is one set of readings. A nil field was not read, either because
// the board does not have it or because the read failed (see Errors).
// Photodiode current is mA on the FRX and uA on the FTX and is reported in
// separate fields.
type Snapshot struct {
	Time         time.Time      `json:"time"`
	Board        module.Variant `json:"board"`
	UID          string         `json:"uid,omitempty"`
	TempC        *float64       `json:"temp_c,omitempty"`
	AttenDB      *float64       `json:"atten_db,omitempty"`
	RFPowerDBm   *float64       `json:"rf_power_dbm,omitempty"`
	PDCurrentMA  *float64       `json:"pd_current_ma,omitempty"`
	PDCurrentUA  *float64       `json:"pd_current_ua,omitempty"`
	LDCurrentMA  *float64       `json:"ld_current_ma,omitempty"`
	LDSetpointMA *float64       `json:"ld_setpoint_ma,omitempty"`
	LNACurrentMA *float64       `json:"lna_current_ma,omitempty"`
	VDDA         *float64       `json:"vdda_v,omitempty"`
	VDD          *float64       `json:"vdd_v,omitempty"`
	VLNA         *float64       `json:"vlna_v,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
}

type collector struct {
	snap Snapshot
	err  error
}

func (c *collector) read(name string, dst **float64, fn func() (float64, error)) {
	v, err := fn()
	if err != nil {
		c.err = multierr.Append(c.err, fmt.Errorf("%s: %w", name, err))
		return
	}
	*dst = &v
}

type uidReader interface {
	UID() (uint64, error)
}

func (c *collector) uid(s uidReader) {
	uid, err := s.UID()
	if err != nil {
		c.err = multierr.Append(c.err, fmt.Errorf("uid: %w", err))
		return
	}
	c.snap.UID = fmt.Sprintf("%012x", uid)
}

func (c *collector) done() (Snapshot, error) {
	for _, err := range multierr.Errors(c.err) {
		c.snap.Errors = append(c.snap.Errors, err.Error())
	}
	return c.snap, c.err
}

// CollectFrx reads every FRX monitor value. Failed reads do not stop the
// collection, they are combined into the returned error.
func CollectFrx(b *module.Frx, now time.Time) (Snapshot, error) {
	c := &collector{snap: Snapshot{Time: now, Board: module.VariantFrx}}
	c.uid(b.Temp)
	c.read("temperature", &c.snap.TempC, b.Temp.Temp)
	c.read("attenuation", &c.snap.AttenDB, b.AttenuationDB)
	c.read("rf power", &c.snap.RFPowerDBm, b.ADC.RFPower)
	c.read("pd current", &c.snap.PDCurrentMA, b.ADC.PDCurrent)
	return c.done()
}

// CollectFtx reads every FTX monitor value and the laser current setpoint.
func CollectFtx(b *module.Ftx, now time.Time) (Snapshot, error) {
	c := &collector{snap: Snapshot{Time: now, Board: module.VariantFtx}}
	c.uid(b.Temp)
	c.read("temperature", &c.snap.TempC, b.Temp.Temp)
	c.read("attenuation", &c.snap.AttenDB, b.AttenuationDB)
	c.read("rf power", &c.snap.RFPowerDBm, b.ADC.RFPower)
	c.read("pd current", &c.snap.PDCurrentUA, b.ADC.PDCurrent)
	c.read("ld current", &c.snap.LDCurrentMA, b.ADC.LDCurrent)
	c.read("ld setpoint", &c.snap.LDSetpointMA, b.Digipot.Get)
	c.read("lna current", &c.snap.LNACurrentMA, b.ADC.LNACurrent)
	c.read("vdda", &c.snap.VDDA, b.ADC.AnalogVoltage)
	c.read("vdd", &c.snap.VDD, b.ADC.DigitalVoltage)
	c.read("vlna", &c.snap.VLNA, b.ADC.LNAVoltage)
	return c.done()
}
