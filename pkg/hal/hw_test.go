package hal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type segment struct {
	W []byte
	R int
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want []segment
	}{
		{
			name: "writes merge",
			ops:  []Operation{WriteOp([]byte{0x01}), WriteOp([]byte{0x02, 0x20})},
			want: []segment{{W: []byte{0x01, 0x02, 0x20}}},
		},
		{
			name: "write then read",
			ops:  []Operation{WriteOp([]byte{0x05}), ReadOp(make([]byte, 2))},
			want: []segment{{W: []byte{0x05}, R: 2}},
		},
		{
			name: "read only",
			ops:  []Operation{ReadOp(make([]byte, 1)), ReadOp(make([]byte, 3))},
			want: []segment{{R: 4}},
		},
		{
			name: "write after read opens a segment",
			ops: []Operation{
				WriteOp([]byte{0x01}), ReadOp(make([]byte, 1)),
				WriteOp([]byte{0x02}), ReadOp(make([]byte, 2)),
			},
			want: []segment{{W: []byte{0x01}, R: 1}, {W: []byte{0x02}, R: 2}},
		},
		{
			name: "empty",
			ops:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []segment
			err := Split(tt.ops, func(w, r []byte) error {
				got = append(got, segment{W: append([]byte(nil), w...), R: len(r)})
				return nil
			})
			if err != nil {
				t.Fatalf("split failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitScattersReads(t *testing.T) {
	a := make([]byte, 1)
	b := make([]byte, 2)
	err := Split([]Operation{ReadOp(a), ReadOp(b)}, func(w, r []byte) error {
		copy(r, []byte{0xAA, 0xBB, 0xCC})
		return nil
	})
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if a[0] != 0xAA || b[0] != 0xBB || b[1] != 0xCC {
		t.Errorf("reads not scattered: a=%x b=%x", a, b)
	}
}

func TestSplitStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Split([]Operation{
		WriteOp([]byte{1}), ReadOp(make([]byte, 1)),
		WriteOp([]byte{2}),
	}, func(w, r []byte) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("want 1 call, got %d", calls)
	}
}
