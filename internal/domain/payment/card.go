package payment

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrCardNumber        = errors.New("payment: card number must be 16 digits and pass the checksum")
	ErrCardExpiry        = errors.New("payment: expiry must be a future MM/YY")
	ErrCardCVV           = errors.New("payment: cvv must be 3 or 4 digits")
	ErrCardHolder        = errors.New("payment: card holder is required")
	ErrCardRequired      = errors.New("payment: card details required")
	ErrUnsupportedMethod = errors.New("payment: unsupported payment method")
)

type Method string

const (
	MethodCard          Method = "card"
	MethodPayAtProperty Method = "pay_at_property"
)

const cardNumberDigits = 16

func ParseMethod(raw string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MethodCard:
		return MethodCard, nil
	case MethodPayAtProperty:
		return MethodPayAtProperty, nil
	default:
		return "", ErrUnsupportedMethod
	}
}

// Card holds details checked at request time and never persisted.
type Card struct {
	Number string
	Holder string
	Expiry string
	CVV    string
}

// Validate checks the card against the clock; the first failing field wins.
func (c Card) Validate(now time.Time) error {
	number := stripSeparators(c.Number)
	if len(number) != cardNumberDigits || !allDigits(number) || !Luhn(number) {
		return ErrCardNumber
	}
	if err := validateExpiry(c.Expiry, now); err != nil {
		return err
	}
	cvv := strings.TrimSpace(c.CVV)
	if (len(cvv) != 3 && len(cvv) != 4) || !allDigits(cvv) {
		return ErrCardCVV
	}
	if strings.TrimSpace(c.Holder) == "" {
		return ErrCardHolder
	}
	return nil
}

// Last4 is safe to log.
func (c Card) Last4() string {
	number := stripSeparators(c.Number)
	if len(number) < 4 {
		return ""
	}
	return number[len(number)-4:]
}

// Luhn runs the mod-10 checksum over a digit string.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// validateExpiry treats the card as valid through the last day of its month.
func validateExpiry(raw string, now time.Time) error {
	mm, yy, ok := strings.Cut(strings.TrimSpace(raw), "/")
	if !ok || len(mm) != 2 || len(yy) != 2 {
		return ErrCardExpiry
	}
	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return ErrCardExpiry
	}
	year, err := strconv.Atoi(yy)
	if err != nil || year < 0 {
		return ErrCardExpiry
	}
	firstOfNextMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.UTC().Before(firstOfNextMonth) {
		return ErrCardExpiry
	}
	return nil
}

func stripSeparators(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
