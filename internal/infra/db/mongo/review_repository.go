package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperties "stayhub/internal/domain/properties"
	domainreviews "stayhub/internal/domain/reviews"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(reviewsCollection)}
}

func (r *ReviewRepository) ByCustomerAndProperty(ctx context.Context, customerID string, propertyID domainproperties.PropertyID) (*domainreviews.Review, error) {
	var doc reviewDocument
	filter := bson.M{"customer_id": customerID, "property_id": string(propertyID)}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err, domainreviews.ErrNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID domainproperties.PropertyID) ([]*domainreviews.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)}, opts)
	if err != nil {
		return nil, err
	}
	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainreviews.Review, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toAggregate())
	}
	return out, nil
}

// Save inserts; the unique author index turns a racing second review into
// ErrAlreadyReviewed.
func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := reviewDocument{
		ID:         string(review.ID),
		PropertyID: string(review.PropertyID),
		CustomerID: review.CustomerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt.UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if duplicateOn(err, reviewIndexName) {
		return domainreviews.ErrAlreadyReviewed
	}
	return err
}

type reviewDocument struct {
	ID         string    `bson:"_id"`
	PropertyID string    `bson:"property_id"`
	CustomerID string    `bson:"customer_id"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:         domainreviews.ReviewID(d.ID),
		PropertyID: domainproperties.PropertyID(d.PropertyID),
		CustomerID: d.CustomerID,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  utc(d.CreatedAt),
	}
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
