package outbox

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "stayhub/internal/app/outbox"
)

type state string

const (
	statePending state = "pending"
	stateClaimed state = "claimed"
	stateSent    state = "sent"
	stateRetry   state = "retry"
)

const (
	eventsCollection    = "outbox_events"
	defaultClaimTimeout = time.Minute
	// sentRetention keeps delivered events around for inspection.
	sentRetention = 7 * 24 * time.Hour
)

// Store is the Mongo-backed outbox. Add writes through the caller's context,
// so inside a unit of work the event commits with the booking or review that
// raised it.
type Store struct {
	events *mongo.Collection

	// ClaimTimeout hands an event to another worker when its claimer went quiet.
	ClaimTimeout time.Duration
}

func NewStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	events := db.Collection(eventsCollection)
	_, err := events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "due_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "sent_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(sentRetention.Seconds())).SetSparse(true),
		},
	})
	if err != nil {
		return nil, err
	}
	return &Store{events: events, ClaimTimeout: defaultClaimTimeout}, nil
}

type eventDoc struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Aggregate  string            `bson:"aggregate"`
	Payload    []byte            `bson:"payload"`
	Headers    map[string]string `bson:"headers,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at"`
	State      state             `bson:"state"`
	Attempts   int               `bson:"attempts"`
	DueAt      time.Time         `bson:"due_at"`
	Worker     string            `bson:"worker,omitempty"`
	ClaimedAt  *time.Time        `bson:"claimed_at,omitempty"`
	SentAt     *time.Time        `bson:"sent_at,omitempty"`
	LastError  string            `bson:"last_error,omitempty"`
}

func (d eventDoc) message() *Message {
	return &Message{
		ID:         d.ID,
		Name:       d.Name,
		Payload:    d.Payload,
		OccurredAt: d.OccurredAt,
		Aggregate:  d.Aggregate,
		Headers:    d.Headers,
		Attempts:   d.Attempts,
	}
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	_, err := s.events.InsertOne(ctx, eventDoc{
		ID:         record.ID,
		Name:       record.Name,
		Aggregate:  record.Aggregate,
		Payload:    record.Payload,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt,
		State:      statePending,
		DueAt:      time.Now().UTC(),
	})
	return err
}

// Flush does nothing; the worker polls the collection.
func (s *Store) Flush(context.Context) error {
	return nil
}

// Claim takes the oldest due event, including ones whose claim went stale.
// It returns nil, nil when nothing is due.
func (s *Store) Claim(ctx context.Context, workerID string) (*Message, error) {
	now := time.Now().UTC()
	timeout := s.ClaimTimeout
	if timeout <= 0 {
		timeout = defaultClaimTimeout
	}
	due := bson.M{"$or": bson.A{
		bson.M{"state": bson.M{"$in": bson.A{statePending, stateRetry}}, "due_at": bson.M{"$lte": now}},
		bson.M{"state": stateClaimed, "claimed_at": bson.M{"$lte": now.Add(-timeout)}},
	}}
	claim := bson.M{"$set": bson.M{"state": stateClaimed, "worker": workerID, "claimed_at": now}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "due_at", Value: 1}}).
		SetReturnDocument(options.After)

	var doc eventDoc
	err := s.events.FindOneAndUpdate(ctx, due, claim, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return doc.message(), nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	return s.set(ctx, id, bson.M{"$set": bson.M{"state": stateSent, "sent_at": time.Now().UTC()}})
}

func (s *Store) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	return s.set(ctx, id, bson.M{
		"$set": bson.M{"state": stateRetry, "due_at": next.UTC(), "last_error": errMsg},
		"$inc": bson.M{"attempts": 1},
	})
}

func (s *Store) set(ctx context.Context, id string, update bson.M) error {
	_, err := s.events.UpdateByID(ctx, id, update)
	return err
}

var (
	_ appoutbox.Outbox = (*Store)(nil)
	_ Queue            = (*Store)(nil)
)
