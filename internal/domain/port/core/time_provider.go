package core

import (
	"context"
	"time"
)

// Duration is the clock's unit for sleeps and deadlines
type Duration time.Duration

const (
	Millisecond = Duration(time.Millisecond)
	Second      = Duration(time.Second)
)

// Std converts d to a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TimeProvider is the clock used for ledger timestamps, lock expiry,
// connection retry delays and the payment charge deadline
type TimeProvider interface {
	// Now returns the timestamp written to balances, transactions and logs
	Now() time.Time
	Sleep(d Duration)
	// WithTimeout bounds a blocking call such as an off-session charge
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
}
