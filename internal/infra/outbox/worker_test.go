package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeQueue struct {
	pending []*Message
	sent    []string
	failed  map[string]time.Time
}

func (q *fakeQueue) Claim(context.Context, string) (*Message, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	msg := q.pending[0]
	q.pending = q.pending[1:]
	return msg, nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

type published struct {
	topic, key string
	body       []byte
	headers    map[string]string
}

type fakeProducer struct {
	out []published
	err error
}

func (p *fakeProducer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.out = append(p.out, published{topic, key, payload, headers})
	return nil
}

func TestDrainWrapsEventsAsCloudEvents(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	queue := &fakeQueue{pending: []*Message{
		{ID: "e-1", Name: "booking.requested", Aggregate: "b-1", Payload: []byte(`{"booking_id":"b-1"}`), OccurredAt: at, Headers: map[string]string{"event-name": "booking.requested"}},
		{ID: "e-2", Name: "review.submitted", Aggregate: "r-1", Payload: []byte(`{}`), OccurredAt: at},
	}}
	producer := &fakeProducer{}
	w := &Worker{Queue: queue, Producer: producer, TopicPrefix: "stayhub.", ID: "w-1"}

	sent, err := w.Drain(context.Background())
	if err != nil || sent != 2 {
		t.Fatalf("expected 2 sent, got %d %v", sent, err)
	}
	first := producer.out[0]
	if first.topic != "stayhub.booking.events.v1" || first.key != "b-1" {
		t.Fatalf("unexpected routing %s/%s", first.topic, first.key)
	}
	if first.headers["content-type"] != "application/cloudevents+json" || first.headers["event-name"] != "booking.requested" {
		t.Fatalf("unexpected headers %v", first.headers)
	}
	var env envelope
	if err := json.Unmarshal(first.body, &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "booking.requested.v1" || env.Source != defaultSource || string(env.Data) != `{"booking_id":"b-1"}` {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if producer.out[1].topic != "stayhub.review.events.v1" {
		t.Fatalf("review events go to their own topic, got %s", producer.out[1].topic)
	}
	if len(queue.sent) != 2 {
		t.Fatalf("both events should be marked sent, got %v", queue.sent)
	}
}

func TestDrainSchedulesRetryWithBackoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	queue := &fakeQueue{pending: []*Message{
		{ID: "e-1", Name: "booking.cancelled", Payload: []byte(`{}`), Attempts: 5},
		{ID: "e-2", Name: "booking.cancelled", Payload: []byte(`{}`)},
	}}
	w := &Worker{
		Queue:    queue,
		Producer: &fakeProducer{err: errors.New("broker down")},
		Backoff:  []time.Duration{time.Second, time.Minute},
		Now:      func() time.Time { return now },
	}

	sent, err := w.Drain(context.Background())
	if err != nil || sent != 0 {
		t.Fatalf("expected nothing sent and no store error, got %d %v", sent, err)
	}
	if got := queue.failed["e-1"]; !got.Equal(now.Add(time.Minute)) {
		t.Fatalf("attempts past the table reuse the last delay, got %s", got)
	}
	if len(queue.pending) != 1 {
		t.Fatal("a failed publish ends the batch")
	}
}

func TestDrainRejectsNonJSONPayload(t *testing.T) {
	queue := &fakeQueue{pending: []*Message{{ID: "e-1", Name: "booking.requested", Payload: []byte("not json")}}}
	producer := &fakeProducer{}
	w := &Worker{Queue: queue, Producer: producer}

	if _, err := w.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(producer.out) != 0 {
		t.Fatal("malformed payloads must not reach the broker")
	}
	if _, ok := queue.failed["e-1"]; !ok {
		t.Fatal("malformed payload should be marked failed")
	}
}

func TestRunRequiresDependencies(t *testing.T) {
	if err := (&Worker{}).Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("expected ErrWorkerNotConfigured, got %v", err)
	}
}

func TestTopic(t *testing.T) {
	if got := Topic("", "saved"); got != "saved.events.v1" {
		t.Fatalf("unexpected topic %s", got)
	}
}
