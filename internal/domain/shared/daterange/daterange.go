package daterange

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	// Layout is the calendar-day wire format for stay dates.
	Layout = "2006-01-02"

	day = 24 * time.Hour
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
	ErrInvalidDate  = errors.New("daterange: date must use YYYY-MM-DD")
)

// DateRange represents a stay [checkIn, checkOut); checkOut is the departure day.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDay(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDay(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return New(in, out)
}

// ParseDay parses a calendar day at UTC midnight.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights rounds partial days up, so a 25h stay is two nights.
func (dr DateRange) Nights() int {
	return int(math.Ceil(dr.CheckOut.Sub(dr.CheckIn).Hours() / day.Hours()))
}

// Overlaps reports whether two stays touch, treating a shared
// checkout/checkin day as a conflict.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.CheckIn.After(other.CheckOut) && !dr.CheckOut.Before(other.CheckIn)
}

// OverlapsStrict is the same-day-turnover variant: back-to-back stays do not conflict.
func (dr DateRange) OverlapsStrict(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return (t.Equal(dr.CheckIn) || t.After(dr.CheckIn)) && t.Before(dr.CheckOut)
}

func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.CheckOut.Equal(other.CheckIn) || dr.CheckIn.Equal(other.CheckOut)
}

func (dr DateRange) String() string {
	return dr.CheckIn.Format(Layout) + ".." + dr.CheckOut.Format(Layout)
}
