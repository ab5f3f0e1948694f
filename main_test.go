package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mbalug7/go-rfof/pkg/config"
	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/hal/haltest"
	"github.com/mbalug7/go-rfof/pkg/module"
)

func TestLoadConfigFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfof.yaml")
	data := "board: ftx\nbus:\n  name: /dev/i2c-1\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	o, err := parseFlags([]string{"-config", path, "-board", "frx", "-bus", "/dev/i2c-3"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(o)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Board != config.BoardFrx || cfg.Bus.Name != "/dev/i2c-3" {
		t.Errorf("flags did not override config: %+v", cfg)
	}
	if cfg.Bus.Driver != config.DriverPeriph || cfg.Telemetry.IntervalMs != config.DefaultIntervalMs {
		t.Errorf("config not normalized: %+v", cfg)
	}
}

func TestLoadConfigRequiresBoard(t *testing.T) {
	o, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(o); err == nil || !strings.Contains(err.Error(), "board") {
		t.Fatalf("want a board error, got %v", err)
	}
}

func newTestBus() *haltest.Bus {
	accept := haltest.DeviceFunc(func(w, r []byte) error { return nil })
	return haltest.NewBus().
		Attach(0x20, &haltest.Memory{}).
		Attach(0x10, accept).
		Attach(0x48, &haltest.Memory{}).
		Attach(0x2C, accept)
}

func TestApplyControlsFtx(t *testing.T) {
	bus := newTestBus()
	b := &board{ftx: module.NewFtx(bus, bus, bus, bus)}
	o, err := parseFlags([]string{"-atten", "1.25", "-lna", "-ld", "50"})
	if err != nil {
		t.Fatal(err)
	}
	if err := applyControls(b, o, zaptest.NewLogger(t)); err != nil {
		t.Fatal(err)
	}
	if ops := bus.OpsTo(0x20); len(ops) != 1 || ops[0].W[1] != 0x85 {
		t.Errorf("attenuator: %+v", ops)
	}
	if ops := bus.OpsTo(0x10); len(ops) != 1 || ops[0].W[0] != 0x18 {
		t.Errorf("lna enable: %+v", ops)
	}
	if ops := bus.OpsTo(0x2C); len(ops) != 1 || ops[0].W[1] != 0xFF {
		t.Errorf("digipot: %+v", ops)
	}
}

func TestApplyControlsFrxRejectsFtxControls(t *testing.T) {
	bus := newTestBus()
	b := &board{frx: module.NewFrx(bus, bus, bus)}
	o, err := parseFlags([]string{"-ld", "10"})
	if err != nil {
		t.Fatal(err)
	}
	if err := applyControls(b, o, zaptest.NewLogger(t)); err == nil {
		t.Fatal("want an error for -ld on frx")
	}
	if n := len(bus.Ops()); n != 0 {
		t.Errorf("want no bus traffic, got %d ops", n)
	}
}

func TestApplyControlsNothingSet(t *testing.T) {
	bus := newTestBus()
	b := &board{frx: module.NewFrx(bus, bus, bus)}
	o, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := applyControls(b, o, zaptest.NewLogger(t)); err != nil {
		t.Fatal(err)
	}
	if n := len(bus.Ops()); n != 0 {
		t.Errorf("want no bus traffic, got %d ops", n)
	}
}

type closingBus struct {
	*haltest.Bus
	closes int
}

func (b *closingBus) Close() error {
	b.closes++
	return nil
}

func TestOpenHandlesClosesBusWhenFirstHandleFails(t *testing.T) {
	bus := &closingBus{Bus: haltest.NewBus()}
	boom := errors.New("no entropy")
	open := func(string) (*hal.Handle, error) { return nil, boom }

	_, _, err := openHandles(bus, open, []string{"attenuator", "adc"})
	if !errors.Is(err, boom) {
		t.Fatalf("want handle error, got %v", err)
	}
	if bus.closes != 1 {
		t.Errorf("want bus closed once, got %d", bus.closes)
	}
}

func TestOpenHandlesClosesOpenedHandlesOnFailure(t *testing.T) {
	bus := &closingBus{Bus: haltest.NewBus()}
	shared := hal.NewSharedBus(bus, hal.WithLogger(zaptest.NewLogger(t)))
	boom := errors.New("no entropy")
	open := func(name string) (*hal.Handle, error) {
		if name == "temperature" {
			return nil, boom
		}
		return shared.Handle(name)
	}

	_, _, err := openHandles(bus, open, []string{"attenuator", "adc", "temperature"})
	if !errors.Is(err, boom) {
		t.Fatalf("want handle error, got %v", err)
	}
	if shared.Refs() != 0 {
		t.Errorf("want all handles released, got %d", shared.Refs())
	}
	if bus.closes != 1 {
		t.Errorf("want bus closed once by the last handle, got %d", bus.closes)
	}
}

func TestOpenHandles(t *testing.T) {
	bus := &closingBus{Bus: haltest.NewBus()}
	shared := hal.NewSharedBus(bus)

	handles, closeAll, err := openHandles(bus, shared.Handle, []string{"attenuator", "adc", "temperature", "digipot"})
	if err != nil {
		t.Fatal(err)
	}
	if len(handles) != 4 || shared.Refs() != 4 {
		t.Fatalf("want 4 handles, got %d (refs %d)", len(handles), shared.Refs())
	}
	if bus.closes != 0 {
		t.Fatal("bus closed while handles are open")
	}
	if err := closeAll(); err != nil {
		t.Fatal(err)
	}
	if bus.closes != 1 {
		t.Errorf("want bus closed once, got %d", bus.closes)
	}
}
