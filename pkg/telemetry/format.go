package telemetry

import (
	"fmt"
	"io"
)

type textLine struct {
	label string
	value *float64
	unit  string
}

// WriteText prints s in a human readable form, one reading per line.
// Readings that are missing are skipped.
func WriteText(w io.Writer, s Snapshot) error {
	if s.UID != "" {
		if _, err := fmt.Fprintf(w, "Unique ID: 0x%s\n", s.UID); err != nil {
			return err
		}
	}
	lines := []textLine{
		{"Temperature", s.TempC, "C"},
		{"Attenuation", s.AttenDB, "dB"},
		{"RF Power", s.RFPowerDBm, "dBm"},
		{"PD Current", s.PDCurrentMA, "mA"},
		{"PD Current", s.PDCurrentUA, "uA"},
		{"LD Current", s.LDCurrentMA, "mA"},
		{"LD Setpoint Current", s.LDSetpointMA, "mA"},
		{"LNA Current", s.LNACurrentMA, "mA"},
		{"VDDA", s.VDDA, "V"},
		{"VDD", s.VDD, "V"},
		{"VLNA", s.VLNA, "V"},
	}
	for _, l := range lines {
		if l.value == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %.2f %s\n", l.label, *l.value, l.unit); err != nil {
			return err
		}
	}
	for _, e := range s.Errors {
		if _, err := fmt.Fprintf(w, "error: %s\n", e); err != nil {
			return err
		}
	}
	return nil
}
