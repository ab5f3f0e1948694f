package rpi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/mbalug7/go-rfof/pkg/hal"
	"github.com/mbalug7/go-rfof/pkg/temp"
)

func TestBusTransfers(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x20, W: []byte{0x03, 0x00}},
			{Addr: 0x2C, R: []byte{0x80}},
			{Addr: 0x48, W: []byte{0x01}, R: []byte{0x02, 0x20}},
			{Addr: 0x48, W: []byte{0x01, 0x00, 0x60}},
			{Addr: 0x48, W: []byte{0x05}, R: []byte{0x12, 0x34, 0x56, 0x78}},
		},
		DontPanic: true,
	}
	b := New(pb)

	if err := b.Write(0x20, []byte{0x03, 0x00}); err != nil {
		t.Fatal(err)
	}
	var one [1]byte
	if err := b.Read(0x2C, one[:]); err != nil {
		t.Fatal(err)
	}
	if one[0] != 0x80 {
		t.Errorf("read: want 0x80, got %#x", one[0])
	}
	var two [2]byte
	if err := b.WriteRead(0x48, []byte{0x01}, two[:]); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x02, 0x20}, two[:]); diff != "" {
		t.Errorf("write-read (-want +got):\n%s", diff)
	}
	// two write legs go out as a single transfer
	err := b.Transaction(0x48, []hal.Operation{
		hal.WriteOp([]byte{0x01}),
		hal.WriteOp([]byte{0x00, 0x60}),
	})
	if err != nil {
		t.Fatal(err)
	}
	hi, lo := make([]byte, 2), make([]byte, 2)
	err = b.Transaction(0x48, []hal.Operation{
		hal.WriteOp([]byte{0x05}),
		hal.ReadOp(hi),
		hal.ReadOp(lo),
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x12, 0x34, 0x56, 0x78}, append(hi, lo...)); diff != "" {
		t.Errorf("scattered reads (-want +got):\n%s", diff)
	}
	if err := b.Close(); err != nil {
		t.Errorf("close of a wrapped bus: %v", err)
	}
	if err := pb.Close(); err != nil {
		t.Errorf("playback not fully consumed: %v", err)
	}
}

func TestBusDrivesSensor(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x48, W: []byte{0x00}, R: []byte{0x01, 0x90}},
		},
		DontPanic: true,
	}
	got, err := temp.New(New(pb), temp.DefaultAddress).Temp()
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.125 {
		t.Errorf("want 3.125 degC, got %v", got)
	}
}
