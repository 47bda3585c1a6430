package availability

import (
	"errors"
	"fmt"

	domainbooking "stayhub/internal/domain/booking"
	"stayhub/internal/domain/shared/daterange"
)

var (
	ErrUnavailable        = errors.New("availability: dates could not be verified")
	ErrPropertyIDRequired = errors.New("availability: property id is required")
)

type OverlapError struct {
	BookingID domainbooking.BookingID
	Stay      daterange.DateRange
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("availability: dates overlap confirmed stay %s", e.Stay)
}

func (e *OverlapError) Is(target error) bool { return target == ErrUnavailable }
