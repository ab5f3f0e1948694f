package telemetry

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// Encoder writes snapshots as JSON lines.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

func (e *Encoder) Encode(s Snapshot) error {
	return e.enc.Encode(s)
}

// OpenSerial opens a serial port to stream snapshots to, 8N1.
func OpenSerial(port string, baud int) (io.WriteCloser, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:   port,
		Baud:   baud,
		Size:   8,
		Parity: serial.ParityNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	return p, nil
}
