package lock

import (
	"context"
	"fmt"
)

// Local is an in-process Locker. It is enough when a single instance serves
// all bookings.
type Local struct {
	sem chan struct{}
}

// NewLocal creates an unlocked in-process lock.
func NewLocal() *Local {
	return &Local{sem: make(chan struct{}, 1)}
}

func (l *Local) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrNotAcquired, ctx.Err())
	}
}
