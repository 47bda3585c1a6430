package booking

import (
	"stayhub/internal/app/apperr"
	"stayhub/internal/app/handlers/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainpayment "stayhub/internal/domain/payment"
	domainpricing "stayhub/internal/domain/pricing"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

var bookingKinds = map[error]apperr.Kind{
	domainbooking.ErrNotFound:                 apperr.KindNotFound,
	domainproperties.ErrNotFound:              apperr.KindNotFound,
	domainbooking.ErrNotOwner:                 apperr.KindForbidden,
	domainproperties.ErrNotHost:               apperr.KindForbidden,
	domainbooking.ErrAlreadyCancelled:         apperr.KindAlreadyCancelled,
	domainbooking.ErrWithinCancellationWindow: apperr.KindWithinCancellationWindow,
	availability.ErrUnavailable:               apperr.KindAvailabilityConflict,
	domainbooking.ErrDuplicateStay:            apperr.KindAvailabilityConflict,
	domainbooking.ErrInvalidState:             apperr.KindValidation,
	domainbooking.ErrCheckInInPast:            apperr.KindValidation,
	domainbooking.ErrInvalidGuests:            apperr.KindValidation,
	domainbooking.ErrCustomerRequired:         apperr.KindValidation,
	domainbooking.ErrPropertyRequired:         apperr.KindValidation,
	domainbooking.ErrTotalRequired:            apperr.KindValidation,
	domainpricing.ErrNightlyRateRequired:      apperr.KindValidation,
	domainpricing.ErrNightsRequired:           apperr.KindValidation,
	daterange.ErrInvalidRange:                 apperr.KindValidation,
	daterange.ErrInvalidDate:                  apperr.KindValidation,
	domainpayment.ErrCardNumber:               apperr.KindValidation,
	domainpayment.ErrCardExpiry:               apperr.KindValidation,
	domainpayment.ErrCardCVV:                  apperr.KindValidation,
	domainpayment.ErrCardHolder:               apperr.KindValidation,
	domainpayment.ErrCardRequired:             apperr.KindValidation,
	domainpayment.ErrUnsupportedMethod:        apperr.KindValidation,
}

func classify(err error) error {
	return apperr.Map(err, bookingKinds)
}
