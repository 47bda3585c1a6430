package booking

import (
	"errors"
	"time"
)

var ErrWithinCancellationWindow = errors.New("booking: check-in is less than 24 hours away")

// CancellationPolicy allows cancelling while at least Notice remains before check-in.
type CancellationPolicy struct {
	Notice time.Duration
}

var DefaultCancellationPolicy = CancellationPolicy{Notice: 24 * time.Hour}

func (p CancellationPolicy) Allows(checkIn, now time.Time) error {
	if checkIn.Sub(now) < p.Notice {
		return ErrWithinCancellationWindow
	}
	return nil
}
