package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Collector takes one snapshot. A non-nil error with a usable snapshot is
// reported but does not stop Run.
type Collector func(now time.Time) (Snapshot, error)

// Sink consumes snapshots. An error stops Run.
type Sink func(Snapshot) error

// Run collects a snapshot right away and then every interval until ctx is
// done. It returns nil when ctx is cancelled.
func Run(ctx context.Context, interval time.Duration, collect Collector, sink Sink, log *zap.Logger) error {
	if interval <= 0 {
		return errors.New("telemetry interval must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}
	emit := func(now time.Time) error {
		s, err := collect(now)
		if err != nil {
			log.Warn("telemetry collection incomplete",
				zap.String("board", string(s.Board)),
				zap.Error(err))
		}
		if err := sink(s); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	}

	if err := emit(time.Now()); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := emit(now); err != nil {
				return err
			}
		}
	}
}
