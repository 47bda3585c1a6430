package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayhub/internal/domain/booking"
)

const (
	propertiesCollection = "properties"
	bookingsCollection   = "bookings"
	reviewsCollection    = "reviews"
	profilesCollection   = "profiles"
	savedCollection      = "saved_properties"

	stayIndexName   = "uniq_confirmed_stay"
	reviewIndexName = "uniq_review_author"
	emailIndexName  = "uniq_email"
)

// EnsureIndexes creates the indexes the repositories rely on. The stay index
// only rejects an exact duplicate of a confirmed stay; overlapping ranges are
// still caught by the availability check alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		propertiesCollection: {
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "host_id", Value: 1}}},
			{Keys: bson.D{{Key: "rating", Value: -1}}},
		},
		bookingsCollection: {
			{
				Keys: bson.D{
					{Key: "property_id", Value: 1},
					{Key: "check_in", Value: 1},
					{Key: "check_out", Value: 1},
					{Key: "status", Value: 1},
				},
				Options: options.Index().
					SetName(stayIndexName).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": string(domainbooking.StatusConfirmed)}),
			},
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "check_out", Value: 1}}},
		},
		reviewsCollection: {
			{
				Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "property_id", Value: 1}},
				Options: options.Index().SetName(reviewIndexName).SetUnique(true),
			},
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		profilesCollection: {
			{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetName(emailIndexName).SetUnique(true)},
		},
		savedCollection: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "saved_at", Value: -1}}},
		},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: indexes on %s: %w", name, err)
		}
	}
	return nil
}

// duplicateOn reports whether err is a duplicate-key error raised by index.
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}
