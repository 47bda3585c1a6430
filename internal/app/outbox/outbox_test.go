package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stayhub/internal/domain/shared/events"
)

type sampleEvent struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

func (e sampleEvent) EventName() string     { return "sample.happened" }
func (e sampleEvent) AggregateID() string   { return e.ID }
func (e sampleEvent) OccurredAt() time.Time { return e.At }

type aggregate struct {
	events.EventRecorder
}

type captureBox struct {
	records []EventRecord
}

func (b *captureBox) Add(_ context.Context, rec EventRecord) error {
	b.records = append(b.records, rec)
	return nil
}

func (b *captureBox) Flush(context.Context) error { return nil }

func TestRecordDomainEventsDrainsSources(t *testing.T) {
	agg := &aggregate{}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	agg.Record(sampleEvent{ID: "a-1", At: at})
	box := &captureBox{}
	enc := JSONEventEncoder{IDGenerator: func() string { return "evt-1" }}

	if err := RecordDomainEvents(context.Background(), box, enc, agg); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(agg.PendingEvents()) != 0 {
		t.Fatal("events must be drained")
	}
	if len(box.records) != 1 {
		t.Fatalf("expected one record, got %d", len(box.records))
	}
	rec := box.records[0]
	if rec.ID != "evt-1" || rec.Name != "sample.happened" || rec.Aggregate != "a-1" || !rec.OccurredAt.Equal(at) {
		t.Fatalf("unexpected record %+v", rec)
	}
	var decoded sampleEvent
	if err := json.Unmarshal(rec.Payload, &decoded); err != nil || decoded.ID != "a-1" {
		t.Fatalf("unexpected payload %s (%v)", rec.Payload, err)
	}
}
