package reviews

import (
	"context"
	"errors"
	"strings"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
)

const canReviewKey = "reviews.can_review"

var (
	ErrPropertyIDRequired = errors.New("reviews: property id is required")
	ErrNotEligible        = errors.New("reviews: a completed stay is required to review this property")
	ErrDuplicateReview    = errors.New("reviews: property already reviewed")
)

var reviewKinds = map[error]apperr.Kind{
	domainproperties.ErrNotFound:     apperr.KindNotFound,
	ErrNotEligible:                   apperr.KindNotEligible,
	ErrDuplicateReview:               apperr.KindDuplicateReview,
	domainreviews.ErrAlreadyReviewed: apperr.KindDuplicateReview,
	ErrPropertyIDRequired:            apperr.KindValidation,
	domainreviews.ErrInvalidRating:   apperr.KindValidation,
	domainreviews.ErrCommentTooLong:  apperr.KindValidation,
	domainreviews.ErrAuthorRequired:  apperr.KindValidation,
	domainreviews.ErrPropertyMissing: apperr.KindValidation,
}

func classify(err error) error {
	return apperr.Map(err, reviewKinds)
}

// CanReviewQuery reports whether the customer may review the property: they
// need a completed stay there and no earlier review.
type CanReviewQuery struct {
	PropertyID string
	CustomerID string
}

func (q CanReviewQuery) Key() string     { return canReviewKey }
func (q CanReviewQuery) ActorID() string { return q.CustomerID }

func (q CanReviewQuery) Validate() error {
	if strings.TrimSpace(q.PropertyID) == "" {
		return ErrPropertyIDRequired
	}
	return nil
}

type CanReviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CanReviewHandler) Handle(ctx context.Context, q CanReviewQuery) (dto.ReviewEligibility, error) {
	result := dto.ReviewEligibility{PropertyID: q.PropertyID}
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		id := domainproperties.PropertyID(q.PropertyID)
		eligible, err := hasCompletedStay(ctx, unit.Bookings(), q.CustomerID, id)
		if err != nil {
			return err
		}
		reviewed, err := hasReviewed(ctx, unit.Reviews(), q.CustomerID, id)
		if err != nil {
			return err
		}
		result.Reviewed = reviewed
		// A second submit still fails with DuplicateReview; Reviewed tells the caller ahead of time.
		result.CanReview = eligible
		return nil
	})
	if err != nil {
		return dto.ReviewEligibility{}, classify(err)
	}
	return result, nil
}

func hasCompletedStay(ctx context.Context, bookings domainbooking.Repository, customerID string, propertyID domainproperties.PropertyID) (bool, error) {
	completed, err := bookings.ListByProperty(ctx, propertyID, domainbooking.StatusCompleted)
	if err != nil {
		return false, err
	}
	for _, b := range completed {
		if b.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

func hasReviewed(ctx context.Context, reviews domainreviews.Repository, customerID string, propertyID domainproperties.PropertyID) (bool, error) {
	_, err := reviews.ByCustomerAndProperty(ctx, customerID, propertyID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domainreviews.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

var _ queries.Handler[CanReviewQuery, dto.ReviewEligibility] = (*CanReviewHandler)(nil)
