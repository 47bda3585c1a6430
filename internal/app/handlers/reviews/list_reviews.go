package reviews

import (
	"context"
	"strings"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
)

const listPropertyReviewsKey = "reviews.list_property"

type ListPropertyReviewsQuery struct {
	PropertyID string
}

func (q ListPropertyReviewsQuery) Key() string { return listPropertyReviewsKey }

func (q ListPropertyReviewsQuery) Validate() error {
	if strings.TrimSpace(q.PropertyID) == "" {
		return ErrPropertyIDRequired
	}
	return nil
}

// ListPropertyReviewsHandler returns reviews newest first with the author
// shown as Anonymous.
type ListPropertyReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPropertyReviewsHandler) Handle(ctx context.Context, q ListPropertyReviewsQuery) (dto.ReviewCollection, error) {
	var result dto.ReviewCollection
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		id := domainproperties.PropertyID(q.PropertyID)
		if _, err := unit.Properties().ByID(ctx, id); err != nil {
			return err
		}
		items, err := unit.Reviews().ListByProperty(ctx, id)
		if err != nil {
			return err
		}
		result = dto.MapReviews(items)
		return nil
	})
	if err != nil {
		return dto.ReviewCollection{}, classify(err)
	}
	return result, nil
}

var _ queries.Handler[ListPropertyReviewsQuery, dto.ReviewCollection] = (*ListPropertyReviewsHandler)(nil)
