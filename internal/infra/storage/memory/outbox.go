package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "stayhub/internal/app/outbox"
	infraoutbox "stayhub/internal/infra/outbox"
)

type outboxEntry struct {
	msg       infraoutbox.Message
	claimed   bool
	nextTry   time.Time
	lastError string
}

// Outbox queues events in memory until the worker relays them.
type Outbox struct {
	mu      sync.Mutex
	entries []*outboxEntry
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &outboxEntry{msg: infraoutbox.Message{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    append([]byte(nil), record.Payload...),
		OccurredAt: record.OccurredAt,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
	}})
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, e := range o.entries {
		if e.claimed || now.Before(e.nextTry) {
			continue
		}
		e.claimed = true
		msg := e.msg
		return &msg, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.entries[:0]
	for _, e := range o.entries {
		if e.msg.ID == id {
			continue
		}
		kept = append(kept, e)
	}
	o.entries = kept
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.entries {
		if e.msg.ID == id {
			e.claimed = false
			e.nextTry = next
			e.lastError = errMsg
			e.msg.Attempts++
		}
	}
	return nil
}

// Pending lists queued events in insertion order.
func (o *Outbox) Pending() []infraoutbox.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]infraoutbox.Message, 0, len(o.entries))
	for _, e := range o.entries {
		out = append(out, e.msg)
	}
	return out
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Queue = (*Outbox)(nil)
)
