package reviews

import (
	"time"

	"stayhub/internal/domain/properties"
)

type ReviewSubmitted struct {
	ReviewID   ReviewID              `json:"review_id"`
	PropertyID properties.PropertyID `json:"property_id"`
	Rating     int                   `json:"rating"`
	At         time.Time             `json:"at"`
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }
