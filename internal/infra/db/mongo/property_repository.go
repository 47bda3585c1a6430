package mongo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperties "stayhub/internal/domain/properties"
	"stayhub/internal/domain/shared/money"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection(propertiesCollection)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		return nil, notFound(err, domainproperties.ErrNotFound)
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) Find(ctx context.Context, query domainproperties.Query, offset, limit int) ([]*domainproperties.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, propertyFilter(query.Normalized()), opts)
	if err != nil {
		return nil, err
	}
	var docs []propertyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainproperties.Property, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toAggregate())
	}
	return out, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperties.Property) error {
	if p == nil || strings.TrimSpace(string(p.ID)) == "" {
		return domainproperties.ErrIDRequired
	}
	doc := newPropertyDocument(p)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

// propertyFilter mirrors Query.Matches; expects a normalized query.
func propertyFilter(q domainproperties.Query) bson.M {
	filter := bson.M{}
	if q.Text != "" {
		pattern := containsPattern(q.Text)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"location.city": pattern},
			bson.M{"location.country": pattern},
		}
	}
	if q.City != "" {
		filter["location.city"] = containsPattern(q.City)
	}
	if q.Continent != "" {
		filter["location.continent"] = q.Continent
	}
	if q.HostID != "" {
		filter["host_id"] = q.HostID
	}
	if q.RatedOnly {
		filter["rating"] = bson.M{"$ne": nil}
	}
	if len(q.IDs) > 0 {
		ids := make(bson.A, 0, len(q.IDs))
		for _, id := range q.IDs {
			ids = append(ids, string(id))
		}
		filter["_id"] = bson.M{"$in": ids}
	}
	return filter
}

func containsPattern(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

type locationDocument struct {
	City      string  `bson:"city"`
	Country   string  `bson:"country"`
	Continent string  `bson:"continent"`
	Lat       float64 `bson:"lat"`
	Long      float64 `bson:"long"`
}

type propertyDocument struct {
	ID            string           `bson:"_id"`
	HostID        string           `bson:"host_id"`
	Name          string           `bson:"name"`
	Description   string           `bson:"description"`
	NightlyPrice  moneyDocument    `bson:"nightly_price"`
	Location      locationDocument `bson:"location"`
	Beds          int              `bson:"beds"`
	Bedrooms      int              `bson:"bedrooms"`
	Bathrooms     *float64         `bson:"bathrooms"`
	BathroomsText string           `bson:"bathrooms_text,omitempty"`
	PropertyType  string           `bson:"property_type"`
	Amenities     stringList       `bson:"amenities"`
	Rating        *float64         `bson:"rating"`
	ReviewCount   int              `bson:"review_count"`
	Images        stringList       `bson:"images"`
	CreatedAt     time.Time        `bson:"created_at"`
	UpdatedAt     time.Time        `bson:"updated_at"`
}

func newPropertyDocument(p *domainproperties.Property) propertyDocument {
	return propertyDocument{
		ID:           string(p.ID),
		HostID:       p.HostID,
		Name:         p.Name,
		Description:  p.Description,
		NightlyPrice: moneyDocument{Amount: p.NightlyPrice.Amount, Currency: p.NightlyPrice.Currency},
		Location: locationDocument{
			City:      p.Location.City,
			Country:   p.Location.Country,
			Continent: p.Location.Continent,
			Lat:       p.Location.Lat,
			Long:      p.Location.Long,
		},
		Beds:          p.Beds,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		BathroomsText: p.BathroomsText,
		PropertyType:  p.PropertyType,
		Amenities:     stringList(p.Amenities),
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		Images:        stringList(p.Images),
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
}

func (d propertyDocument) toAggregate() *domainproperties.Property {
	return &domainproperties.Property{
		ID:           domainproperties.PropertyID(d.ID),
		HostID:       d.HostID,
		Name:         d.Name,
		Description:  d.Description,
		NightlyPrice: money.Money{Amount: d.NightlyPrice.Amount, Currency: d.NightlyPrice.Currency},
		Location: domainproperties.Location{
			City:      d.Location.City,
			Country:   d.Location.Country,
			Continent: d.Location.Continent,
			Lat:       d.Location.Lat,
			Long:      d.Location.Long,
		},
		Beds:          d.Beds,
		Bedrooms:      d.Bedrooms,
		Bathrooms:     d.Bathrooms,
		BathroomsText: d.BathroomsText,
		PropertyType:  d.PropertyType,
		Amenities:     domainproperties.NewStringList(d.Amenities...),
		Rating:        d.Rating,
		ReviewCount:   d.ReviewCount,
		Images:        domainproperties.NewStringList(d.Images...),
		CreatedAt:     utc(d.CreatedAt),
		UpdatedAt:     utc(d.UpdatedAt),
	}
}

var _ domainproperties.Repository = (*PropertyRepository)(nil)
