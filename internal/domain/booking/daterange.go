package booking

import (
	"errors"
	"time"

	"stayhub/internal/domain/shared/daterange"
)

var ErrCheckInInPast = errors.New("booking: check-in date is in the past")

// ValidateStay requires a non-empty range starting today (UTC) or later.
func ValidateStay(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	if daterange.StartOfDay(dr.CheckIn).Before(daterange.StartOfDay(now)) {
		return ErrCheckInInPast
	}
	return nil
}
