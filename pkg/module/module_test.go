package module

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mbalug7/go-rfof/pkg/atten"
	"github.com/mbalug7/go-rfof/pkg/digipot"
	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/hal/haltest"
)

const (
	attenAddr   hal.Address = 0x20
	adcAddr     hal.Address = 0x10
	tempAddr    hal.Address = 0x48
	digipotAddr hal.Address = 0x2C
)

var accept = haltest.DeviceFunc(func(w, r []byte) error { return nil })

type board struct {
	bus      *haltest.Bus
	expander *haltest.Memory
}

func newBoard() board {
	b := board{bus: haltest.NewBus(), expander: &haltest.Memory{}}
	b.bus.Attach(attenAddr, b.expander).
		Attach(adcAddr, accept).
		Attach(tempAddr, &haltest.Memory{}).
		Attach(digipotAddr, accept)
	return b
}

// order returns the addresses in the order they were first touched.
func order(ops []haltest.Op) []hal.Address {
	var out []hal.Address
	for _, op := range ops {
		if len(out) == 0 || out[len(out)-1] != op.Addr {
			out = append(out, op.Addr)
		}
	}
	return out
}

func TestFrxInitOrder(t *testing.T) {
	b := newBoard()
	frx := NewFrx(b.bus, b.bus, b.bus, WithLogger(zaptest.NewLogger(t)))
	if err := frx.Init(); err != nil {
		t.Fatal(err)
	}
	got := order(b.bus.Ops())
	want := []hal.Address{attenAddr, adcAddr, tempAddr}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
	if got := b.expander.Reg(0x01); got != 0x80 {
		t.Errorf("attenuator not at 0 dB after init: %#x", got)
	}
}

func TestFtxInitSkipsDigipot(t *testing.T) {
	b := newBoard()
	ftx := NewFtx(b.bus, b.bus, b.bus, b.bus)
	if err := ftx.Init(); err != nil {
		t.Fatal(err)
	}
	if n := len(b.bus.OpsTo(digipotAddr)); n != 0 {
		t.Errorf("want no digipot traffic, got %d ops", n)
	}
	if n := len(b.bus.OpsTo(tempAddr)); n == 0 {
		t.Error("temperature sensor was not initialized")
	}
}

func TestInitAbortsOnFirstFailure(t *testing.T) {
	boom := errors.New("adc nack")
	tests := []struct {
		name    string
		variant Variant
		init    func(bus hal.Bus, log *zap.Logger) error
	}{
		{"frx", VariantFrx, func(bus hal.Bus, log *zap.Logger) error {
			return NewFrx(bus, bus, bus, WithLogger(log)).Init()
		}},
		{"ftx", VariantFtx, func(bus hal.Bus, log *zap.Logger) error {
			return NewFtx(bus, bus, bus, bus, WithLogger(log)).Init()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard()
			b.bus.Attach(adcAddr, haltest.Failing(boom))
			core, logs := observer.New(zapcore.DebugLevel)

			err := tt.init(b.bus, zap.New(core))
			if !errors.Is(err, boom) {
				t.Fatalf("want %v, got %v", boom, err)
			}
			var merr *Error
			if !errors.As(err, &merr) {
				t.Fatalf("want *Error, got %T", err)
			}
			if merr.Variant != tt.variant || merr.Peripheral != PeripheralADC {
				t.Errorf("want %s/adc, got %s/%s", tt.variant, merr.Variant, merr.Peripheral)
			}
			if n := len(b.bus.OpsTo(adcAddr)); n != 1 {
				t.Errorf("want a single adc call, got %d", n)
			}
			if n := len(b.bus.OpsTo(tempAddr)); n != 0 {
				t.Errorf("want no temperature sensor traffic, got %d ops", n)
			}

			failed := logs.FilterMessage("peripheral init failed").All()
			if len(failed) != 1 {
				t.Fatalf("want 1 failure log, got %d", len(failed))
			}
			if got := failed[0].ContextMap()["peripheral"]; got != "adc" {
				t.Errorf("want peripheral=adc in log, got %v", got)
			}
			if n := logs.FilterMessage("board initialized").Len(); n != 0 {
				t.Errorf("board reported initialized after failure")
			}
		})
	}
}

func TestInitAttenuatorFailureStopsEverything(t *testing.T) {
	boom := errors.New("expander nack")
	b := newBoard()
	b.bus.Attach(attenAddr, haltest.Failing(boom))
	err := NewFtx(b.bus, b.bus, b.bus, b.bus).Init()
	var merr *Error
	if !errors.As(err, &merr) || merr.Peripheral != PeripheralAttenuator {
		t.Fatalf("want attenuator error, got %v", err)
	}
	if got := order(b.bus.Ops()); len(got) != 1 || got[0] != attenAddr {
		t.Errorf("want only attenuator traffic, got %v", got)
	}
}

func TestSetAttenuationDB(t *testing.T) {
	b := newBoard()
	frx := NewFrx(b.bus, b.bus, b.bus)
	if err := frx.SetAttenuationDB(15.25); err != nil {
		t.Fatal(err)
	}
	if got := b.expander.Reg(0x01); got != 61|0x80 {
		t.Errorf("want %#x on the expander, got %#x", 61|0x80, got)
	}
	db, err := frx.AttenuationDB()
	if err != nil {
		t.Fatal(err)
	}
	if db != 15.25 {
		t.Errorf("want 15.25 dB, got %v", db)
	}

	b.bus.Reset()
	err = frx.SetAttenuationDB(40)
	if !errors.Is(err, atten.ErrInvalidAttenuation) {
		t.Errorf("want ErrInvalidAttenuation, got %v", err)
	}
	if n := len(b.bus.Ops()); n != 0 {
		t.Errorf("want no bus traffic, got %d ops", n)
	}
}

func TestFtxControls(t *testing.T) {
	b := newBoard()
	ftx := NewFtx(b.bus, b.bus, b.bus, b.bus, WithLogger(zaptest.NewLogger(t)))

	if err := ftx.SetLaserCurrent(25); err != nil {
		t.Fatal(err)
	}
	ops := b.bus.OpsTo(digipotAddr)
	if len(ops) != 1 || ops[0].W[1] != 128 {
		t.Errorf("want one wiper write of 128, got %+v", ops)
	}

	err := ftx.SetLaserCurrent(60)
	if !errors.Is(err, digipot.ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}
	var merr *Error
	if !errors.As(err, &merr) || merr.Peripheral != PeripheralDigipot {
		t.Errorf("want digipot tag, got %v", err)
	}
	if n := len(b.bus.OpsTo(digipotAddr)); n != 1 {
		t.Errorf("rejected current reached the bus")
	}

	if err := ftx.EnableLNA(true); err != nil {
		t.Fatal(err)
	}
	last := b.bus.OpsTo(adcAddr)
	if len(last) != 1 || last[0].W[0] != 0x18 || last[0].W[2] != 0x40 {
		t.Errorf("want a set-bit of channel 6, got %+v", last)
	}
}

func TestOptions(t *testing.T) {
	bus := haltest.NewBus().
		Attach(0x21, &haltest.Memory{}).
		Attach(adcAddr, accept).
		Attach(0x49, &haltest.Memory{})
	ftx := NewFtx(bus, bus, bus, bus,
		WithTempAddress(0x49),
		WithAttenuatorSelect(true),
		WithDigipotSelect(true),
		WithLogger(nil),
	)
	if err := ftx.Init(); err != nil {
		t.Fatal(err)
	}
	if got := ftx.Digipot.Address(); got != 0x2D {
		t.Errorf("digipot: want 0x2d, got %s", got)
	}
	if got := ftx.Temp.Address(); got != 0x49 {
		t.Errorf("temperature: want 0x49, got %s", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Variant: VariantFtx, Peripheral: PeripheralTemperature, Err: errors.New("timeout")}
	if got := err.Error(); got != "ftx temperature: timeout" {
		t.Errorf("got %q", got)
	}
}
