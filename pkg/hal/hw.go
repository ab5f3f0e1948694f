package hal

import "fmt"

// Address is a 7-bit I2C device address
type Address uint8

func (a Address) String() string {
	return fmt.Sprintf("0x%02x", uint8(a))
}

type OpKind int

const (
	OpWrite OpKind = iota
	OpRead
)

// Operation is one leg of a grouped bus transaction.
type Operation struct {
	Kind OpKind
	Buf  []byte
}

// WriteOp builds a write leg that sends buf.
func WriteOp(buf []byte) Operation {
	return Operation{Kind: OpWrite, Buf: buf}
}

// ReadOp builds a read leg that fills buf.
func ReadOp(buf []byte) Operation {
	return Operation{Kind: OpRead, Buf: buf}
}

// Bus is the transaction primitive every peripheral driver talks to.
// Each call is synchronous and is issued to the transport as one
// indivisible transfer. Errors are transport defined and are handed back
// to callers unchanged.
type Bus interface {
	Read(addr Address, buf []byte) error
	Write(addr Address, buf []byte) error
	WriteRead(addr Address, w []byte, r []byte) error
	Transaction(addr Address, ops []Operation) error
}

// Split walks a grouped transaction and calls tx once per write+read segment.
// Adjacent legs of the same kind are merged, so [W a][W b][R x][R y] turns into
// a single tx(a+b, x+y) call and the read buffers are filled back in order.
// Transports without native multi-leg support use it to emulate Transaction.
func Split(ops []Operation, tx func(w, r []byte) error) error {
	var (
		w     []byte
		reads [][]byte
	)
	flush := func() error {
		if len(w) == 0 && len(reads) == 0 {
			return nil
		}
		n := 0
		for _, r := range reads {
			n += len(r)
		}
		var r []byte
		if len(reads) == 1 {
			r = reads[0]
		} else if n > 0 {
			r = make([]byte, n)
		}
		if err := tx(w, r); err != nil {
			return err
		}
		if len(reads) > 1 {
			off := 0
			for _, dst := range reads {
				off += copy(dst, r[off:])
			}
		}
		w, reads = nil, nil
		return nil
	}

	for _, op := range ops {
		switch op.Kind {
		case OpWrite:
			// a write after a read starts a new segment
			if len(reads) > 0 {
				if err := flush(); err != nil {
					return err
				}
			}
			w = append(w, op.Buf...)
		case OpRead:
			reads = append(reads, op.Buf)
		default:
			return fmt.Errorf("unsupported operation kind: %d", op.Kind)
		}
	}
	return flush()
}
