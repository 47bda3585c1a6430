package dto

import (
	"time"

	domainreviews "stayhub/internal/domain/reviews"
)

// Review is the public payload; the author is never exposed.
type Review struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
	Total int      `json:"total"`
}

type ReviewEligibility struct {
	PropertyID string `json:"property_id"`
	CanReview  bool   `json:"can_review"`
	Reviewed   bool   `json:"reviewed"`
}

func MapReview(review *domainreviews.Review) Review {
	if review == nil {
		return Review{}
	}
	return Review{
		ID:         string(review.ID),
		PropertyID: string(review.PropertyID),
		Author:     domainreviews.AnonymousAuthor,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}

func MapReviews(items []*domainreviews.Review) ReviewCollection {
	out := make([]Review, 0, len(items))
	for _, r := range items {
		out = append(out, MapReview(r))
	}
	return ReviewCollection{Items: out, Total: len(out)}
}
