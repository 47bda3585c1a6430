package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/events"
)

// AnonymousAuthor is shown in place of the reviewer's identity.
const AnonymousAuthor = "Anonymous"

const maxCommentLength = 2000

var (
	ErrInvalidRating   = errors.New("reviews: rating must be between 1 and 5")
	ErrCommentTooLong  = errors.New("reviews: comment is too long")
	ErrAuthorRequired  = errors.New("reviews: customer id required")
	ErrPropertyMissing = errors.New("reviews: property id required")
	ErrNotFound        = errors.New("reviews: not found")
	ErrAlreadyReviewed = errors.New("reviews: customer already reviewed this property")
)

type ReviewID string

type Review struct {
	ID         ReviewID
	PropertyID properties.PropertyID
	CustomerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	// ByCustomerAndProperty returns ErrNotFound when the pair has no review.
	ByCustomerAndProperty(ctx context.Context, customerID string, propertyID properties.PropertyID) (*Review, error)
	// ListByProperty returns reviews newest first.
	ListByProperty(ctx context.Context, propertyID properties.PropertyID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID         ReviewID
	PropertyID properties.PropertyID
	CustomerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func Submit(params SubmitParams) (*Review, error) {
	if err := ValidateRating(params.Rating); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.CustomerID) == "" {
		return nil, ErrAuthorRequired
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, ErrPropertyMissing
	}
	comment := strings.TrimSpace(params.Comment)
	if len([]rune(comment)) > maxCommentLength {
		return nil, ErrCommentTooLong
	}
	review := &Review{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		CustomerID: params.CustomerID,
		Rating:     params.Rating,
		Comment:    comment,
		CreatedAt:  params.CreatedAt.UTC(),
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, PropertyID: review.PropertyID, Rating: review.Rating, At: review.CreatedAt})
	return review, nil
}

// AverageRating returns the mean score and count.
func AverageRating(items []*Review) (float64, int) {
	if len(items) == 0 {
		return 0, 0
	}
	total := 0
	for _, r := range items {
		total += r.Rating
	}
	return float64(total) / float64(len(items)), len(items)
}
