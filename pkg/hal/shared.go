package hal

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mazen160/go-random"
	"go.uber.org/zap"
)

// ErrClosed is returned by a Handle that was already closed.
var ErrClosed = errors.New("bus handle closed")

// SharedBus lets several peripherals own their own Bus while they sit on one
// physical bus. Every transaction holds the bus mutex, so a transfer issued
// by one handle is never interleaved with another handle's transfer.
// The underlying bus is closed (if it implements io.Closer) when the last
// handle is closed.
type SharedBus struct {
	mu      sync.Mutex // serialises transactions on bus
	bus     Bus
	muRefs sync.Mutex // refs protection
	refs   int
	log    *zap.Logger
	trace  bool
}

type SharedOption func(*SharedBus)

// WithLogger sets the logger used for handle lifecycle and tracing.
func WithLogger(log *zap.Logger) SharedOption {
	return func(s *SharedBus) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTrace logs every transaction at debug level.
func WithTrace(trace bool) SharedOption {
	return func(s *SharedBus) {
		s.trace = trace
	}
}

func NewSharedBus(bus Bus, opts ...SharedOption) *SharedBus {
	s := &SharedBus{
		bus: bus,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns a new lightweight Bus bound to the shared bus.
// name is only used for logging.
func (s *SharedBus) Handle(name string) (*Handle, error) {
	id, err := random.String(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate handle id: %w", err)
	}
	h := &Handle{id: id, name: name, shared: s}

	s.muRefs.Lock()
	s.refs++
	s.muRefs.Unlock()

	s.log.Debug("bus handle opened", zap.String("handle", name), zap.String("id", id))
	return h, nil
}

// Refs reports how many handles are still open.
func (s *SharedBus) Refs() int {
	s.muRefs.Lock()
	defer s.muRefs.Unlock()
	return s.refs
}

func (s *SharedBus) release(h *Handle) error {
	s.muRefs.Lock()
	s.refs--
	last := s.refs == 0
	s.muRefs.Unlock()

	s.log.Debug("bus handle closed", zap.String("handle", h.name), zap.String("id", h.id))
	if !last {
		return nil
	}
	if c, ok := s.bus.(io.Closer); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close shared bus: %w", err)
		}
	}
	return nil
}

func (s *SharedBus) do(h *Handle, kind string, addr Address, fn func(Bus) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.bus)
	if s.trace {
		s.log.Debug("bus transaction",
			zap.String("handle", h.name),
			zap.String("op", kind),
			zap.Stringer("addr", addr),
			zap.Error(err),
		)
	}
	return err
}

// Handle is one peripheral's view of a SharedBus.
type Handle struct {
	id     string
	name   string
	shared *SharedBus
	mu     sync.Mutex
	closed bool
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Handle) Read(addr Address, buf []byte) error {
	if h.isClosed() {
		return ErrClosed
	}
	return h.shared.do(h, "read", addr, func(b Bus) error {
		return b.Read(addr, buf)
	})
}

func (h *Handle) Write(addr Address, buf []byte) error {
	if h.isClosed() {
		return ErrClosed
	}
	return h.shared.do(h, "write", addr, func(b Bus) error {
		return b.Write(addr, buf)
	})
}

func (h *Handle) WriteRead(addr Address, w []byte, r []byte) error {
	if h.isClosed() {
		return ErrClosed
	}
	return h.shared.do(h, "write_read", addr, func(b Bus) error {
		return b.WriteRead(addr, w, r)
	})
}

func (h *Handle) Transaction(addr Address, ops []Operation) error {
	if h.isClosed() {
		return ErrClosed
	}
	return h.shared.do(h, "transaction", addr, func(b Bus) error {
		return b.Transaction(addr, ops)
	})
}

// Close releases the handle. Closing twice returns ErrClosed.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.closed = true
	h.mu.Unlock()
	return h.shared.release(h)
}
