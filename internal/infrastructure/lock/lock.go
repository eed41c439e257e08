// Package lock serialises the check-then-insert step of a booking.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken before ctx ended.
var ErrNotAcquired = errors.New("booking lock not acquired")

// Locker guards a critical section. The returned release func must be called
// exactly once.
type Locker interface {
	Lock(ctx context.Context) (release func(), err error)
}
