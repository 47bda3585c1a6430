package availability

import (
	"context"
	"strings"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	PropertyID string
	CheckIn    string
	CheckOut   string
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

func (q CheckAvailabilityQuery) Validate() error {
	if strings.TrimSpace(q.PropertyID) == "" {
		return ErrPropertyIDRequired
	}
	_, err := daterange.Parse(q.CheckIn, q.CheckOut)
	return err
}

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Checker    Checker
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	stay, err := daterange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Availability{}, apperr.Validation(err)
	}
	result := dto.Availability{
		PropertyID: q.PropertyID,
		CheckIn:    stay.CheckIn.Format(daterange.Layout),
		CheckOut:   stay.CheckOut.Format(daterange.Layout),
	}
	err = uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		id := domainproperties.PropertyID(q.PropertyID)
		if _, err := unit.Properties().ByID(ctx, id); err != nil {
			return apperr.Map(err, map[error]apperr.Kind{domainproperties.ErrNotFound: apperr.KindNotFound})
		}
		result.Available = h.Checker.IsAvailable(ctx, unit.Bookings(), id, stay)
		return nil
	})
	if err != nil {
		return dto.Availability{}, err
	}
	return result, nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
