package atten

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAttenuation is returned for a step or dB value the F1958 can't represent.
var ErrInvalidAttenuation = errors.New("invalid attenuation")

// Attenuation is a step of the F1958 digital step attenuator, 0.25 dB per step.
// Only 0 (0 dB) to 127 (31.75 dB) are valid.
type Attenuation uint8

const (
	Atten0   Attenuation = 0
	AttenMax Attenuation = 127
)

// StepDB is the attenuation of one step.
const StepDB = 0.25

// MaxDB is the attenuation of AttenMax.
const MaxDB = float64(AttenMax) * StepDB

const stepMask = 0x7F

// AttenuationFromStep converts a step index to an Attenuation.
func AttenuationFromStep(step uint8) (Attenuation, error) {
	if step > uint8(AttenMax) {
		return 0, fmt.Errorf("%w: step %d out of 0-%d", ErrInvalidAttenuation, step, AttenMax)
	}
	return Attenuation(step), nil
}

// AttenuationFromDB converts dB to the nearest step. Values outside
// 0-31.75 dB are rejected.
func AttenuationFromDB(db float64) (Attenuation, error) {
	if !(db >= 0 && db <= MaxDB) {
		return 0, fmt.Errorf("%w: %v dB out of 0-%v dB", ErrInvalidAttenuation, db, MaxDB)
	}
	return AttenuationFromStep(uint8(math.Round(db / StepDB)))
}

// fromWord drops the latch-enable bit of a raw output word. The 7 remaining
// bits always name a valid step.
func fromWord(word uint8) Attenuation {
	a, err := AttenuationFromStep(word & stepMask)
	if err != nil {
		// unreachable: masked value is at most 127
		panic(err)
	}
	return a
}

func (a Attenuation) Valid() bool {
	return a <= AttenMax
}

// DB returns the attenuation in dB.
func (a Attenuation) DB() float64 {
	return float64(a) * StepDB
}

func (a Attenuation) String() string {
	return fmt.Sprintf("%.2f dB", a.DB())
}
