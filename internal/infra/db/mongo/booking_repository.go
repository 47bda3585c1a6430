package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayhub/internal/domain/booking"
	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainbooking.ErrNotFound)
	}
	return doc.toAggregate(), nil
}

// Save writes with an optimistic version check: the stored version must match
// the one the aggregate was loaded with.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b == nil || strings.TrimSpace(string(b.ID)) == "" {
		return domainbooking.ErrNotFound
	}
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		switch {
		case duplicateOn(err, stayIndexName):
			return domainbooking.ErrDuplicateStay
		case mongo.IsDuplicateKeyError(err):
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.list(ctx, bson.M{"customer_id": customerID}, opts)
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperties.PropertyID, statuses ...domainbooking.Status) ([]*domainbooking.Booking, error) {
	filter := bson.M{"property_id": string(propertyID)}
	if len(statuses) > 0 {
		in := make(bson.A, 0, len(statuses))
		for _, s := range statuses {
			in = append(in, string(s))
		}
		filter["status"] = bson.M{"$in": in}
	}
	return r.list(ctx, filter, options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}}))
}

func (r *BookingRepository) ListConfirmedEndingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"status":    string(domainbooking.StatusConfirmed),
		"check_out": bson.M{"$lte": cutoff.UTC()},
	}
	return r.list(ctx, filter, options.Find().SetSort(bson.D{{Key: "check_out", Value: 1}}))
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainbooking.Booking, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toAggregate())
	}
	return out, nil
}

type bookingDocument struct {
	ID         string        `bson:"_id"`
	PropertyID string        `bson:"property_id"`
	CustomerID string        `bson:"customer_id"`
	CheckIn    time.Time     `bson:"check_in"`
	CheckOut   time.Time     `bson:"check_out"`
	Guests     int           `bson:"guests"`
	Nights     int           `bson:"nights"`
	Total      moneyDocument `bson:"total"`
	Status     string        `bson:"status"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
	Version    int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		CustomerID: b.CustomerID,
		CheckIn:    b.Stay.CheckIn.UTC(),
		CheckOut:   b.Stay.CheckOut.UTC(),
		Guests:     b.Guests,
		Nights:     b.Nights,
		Total:      moneyDocument{Amount: b.Total.Amount, Currency: b.Total.Currency},
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.UTC(),
		UpdatedAt:  b.UpdatedAt.UTC(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	status, ok := domainbooking.ParseStatus(d.Status)
	if !ok {
		status = domainbooking.Status(d.Status)
	}
	return &domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		PropertyID: domainproperties.PropertyID(d.PropertyID),
		CustomerID: d.CustomerID,
		Stay:       daterange.DateRange{CheckIn: utc(d.CheckIn), CheckOut: utc(d.CheckOut)},
		Guests:     d.Guests,
		Nights:     d.Nights,
		Total:      money.Money{Amount: d.Total.Amount, Currency: d.Total.Currency},
		Status:     status,
		CreatedAt:  utc(d.CreatedAt),
		UpdatedAt:  utc(d.UpdatedAt),
		Version:    d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
