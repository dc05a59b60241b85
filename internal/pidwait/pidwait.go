// Package pidwait blocks until another process exits.
package pidwait

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned on platforms without a liveness check.
var ErrUnsupported = errors.New("pidwait: not supported on this platform")

const pollInterval = 500 * time.Millisecond

// Wait returns nil once pid no longer exists, or ctx's error if ctx ends
// first.
func Wait(ctx context.Context, pid int) error {
	return wait(ctx, pid, pollInterval)
}

func wait(ctx context.Context, pid int, interval time.Duration) error {
	running, err := alive(pid)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if running, err = alive(pid); err != nil {
			return err
		}
	}
	return nil
}
