package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperties "stayhub/internal/domain/properties"
	domainsaved "stayhub/internal/domain/saved"
)

type SavedRepository struct {
	col *mongo.Collection
}

func NewSavedRepository(db *mongo.Database) *SavedRepository {
	return &SavedRepository{col: db.Collection(savedCollection)}
}

// Save upserts with $setOnInsert so a repeated save keeps the first timestamp.
func (r *SavedRepository) Save(ctx context.Context, entry domainsaved.Entry) error {
	doc := savedDocument{
		ID:         savedID(entry.CustomerID, entry.PropertyID),
		CustomerID: entry.CustomerID,
		PropertyID: string(entry.PropertyID),
		SavedAt:    entry.SavedAt.UTC(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *SavedRepository) Delete(ctx context.Context, customerID string, propertyID domainproperties.PropertyID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": savedID(customerID, propertyID)})
	return err
}

func (r *SavedRepository) ListByCustomer(ctx context.Context, customerID string) ([]domainsaved.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []savedDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domainsaved.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domainsaved.Entry{
			CustomerID: d.CustomerID,
			PropertyID: domainproperties.PropertyID(d.PropertyID),
			SavedAt:    utc(d.SavedAt),
		})
	}
	return out, nil
}

func savedID(customerID string, propertyID domainproperties.PropertyID) string {
	return customerID + ":" + string(propertyID)
}

type savedDocument struct {
	ID         string    `bson:"_id"`
	CustomerID string    `bson:"customer_id"`
	PropertyID string    `bson:"property_id"`
	SavedAt    time.Time `bson:"saved_at"`
}

var _ domainsaved.Repository = (*SavedRepository)(nil)
