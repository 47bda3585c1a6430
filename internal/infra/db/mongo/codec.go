package mongo

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"

	domainproperties "stayhub/internal/domain/properties"
)

// stringList stores amenities and image URLs. Older rows hold a JSON-encoded
// string instead of an array, so both shapes decode to the same list.
type stringList []string

func (l *stringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*l = stringList{}
		return nil
	case bsontype.String:
		parsed, err := domainproperties.ParseStringList(raw.StringValue())
		if err != nil {
			return fmt.Errorf("mongo: string list: %w", err)
		}
		*l = stringList(parsed)
		return nil
	case bsontype.Array:
		var values []string
		if err := raw.Unmarshal(&values); err != nil {
			return fmt.Errorf("mongo: string list: %w", err)
		}
		*l = stringList(domainproperties.NewStringList(values...))
		return nil
	default:
		return fmt.Errorf("mongo: string list: unexpected bson type %s", t)
	}
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

// notFound turns the driver's no-documents error into the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return err
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
