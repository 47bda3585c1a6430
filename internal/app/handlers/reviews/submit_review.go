package reviews

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
)

const submitReviewKey = "reviews.submit"

// SubmitReviewCommand creates the customer's single review of a property.
// Eligibility is checked before the rating, so an ineligible customer is
// told so whatever they typed.
type SubmitReviewCommand struct {
	PropertyID string
	CustomerID string
	Rating     int
	Comment    string
	Now        time.Time
}

func (c SubmitReviewCommand) Key() string     { return submitReviewKey }
func (c SubmitReviewCommand) ActorID() string { return c.CustomerID }

func (c SubmitReviewCommand) Validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return ErrPropertyIDRequired
	}
	return nil
}

// SubmitReviewHandler stores the review and refreshes the property rating.
type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (dto.Review, error) {
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	var result dto.Review
	err := uow.Run(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		propertyID := domainproperties.PropertyID(cmd.PropertyID)
		property, err := unit.Properties().ByID(ctx, propertyID)
		if err != nil {
			return err
		}
		eligible, err := hasCompletedStay(ctx, unit.Bookings(), cmd.CustomerID, propertyID)
		if err != nil {
			return err
		}
		if !eligible {
			return ErrNotEligible
		}
		reviewed, err := hasReviewed(ctx, unit.Reviews(), cmd.CustomerID, propertyID)
		if err != nil {
			return err
		}
		if reviewed {
			return ErrDuplicateReview
		}
		review, err := domainreviews.Submit(domainreviews.SubmitParams{
			ID:         domainreviews.ReviewID(uuid.NewString()),
			PropertyID: propertyID,
			CustomerID: cmd.CustomerID,
			Rating:     cmd.Rating,
			Comment:    cmd.Comment,
			CreatedAt:  now,
		})
		if err != nil {
			return err
		}
		if err := unit.Reviews().Save(ctx, review); err != nil {
			return err
		}
		if err := refreshRating(ctx, unit, property, now); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, review); err != nil {
			return err
		}
		result = dto.MapReview(review)
		return nil
	})
	if err != nil {
		return dto.Review{}, classify(err)
	}
	if h.Logger != nil {
		h.Logger.Info("review submitted", "property_id", cmd.PropertyID, "customer_id", cmd.CustomerID, "rating", cmd.Rating)
	}
	return result, nil
}

func refreshRating(ctx context.Context, unit uow.UnitOfWork, property *domainproperties.Property, now time.Time) error {
	all, err := unit.Reviews().ListByProperty(ctx, property.ID)
	if err != nil {
		return err
	}
	average, count := domainreviews.AverageRating(all)
	property.ApplyReviewScore(average, count, now)
	return unit.Properties().Save(ctx, property)
}

var _ commands.Handler[SubmitReviewCommand, dto.Review] = (*SubmitReviewHandler)(nil)
