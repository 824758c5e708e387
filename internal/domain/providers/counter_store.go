package providers

import (
	"context"
	"time"
)

// CounterStore keeps shared fixed-window counters
type CounterStore interface {
	// Increment adds one to key, starting a window of the given length when the
	// key is new, and returns the new count with the time left in the window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
