package hal

import (
	"context"
	"time"
)

// Wait blocks for d and reports whether to continue (false => cancelled).
type Wait func(ctx context.Context, d time.Duration) bool

// Sleep is the default Wait.
func Sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// NoWait returns immediately; tests use it to skip display dwell times.
func NoWait(ctx context.Context, _ time.Duration) bool { return ctx.Err() == nil }
