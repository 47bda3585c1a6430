package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultInterval  = 500 * time.Millisecond
	defaultBatchSize = 50
	defaultRetry     = 5 * time.Second
	defaultSource    = "app://stayhub"
)

var (
	ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")
	ErrPayloadNotJSON      = errors.New("outbox: event payload is not json")
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker moves staged booking and review events onto the broker. Each event is
// wrapped in a CloudEvents 1.0 envelope and keyed by its aggregate id, so all
// events of one booking land on the same partition.
type Worker struct {
	Queue       Queue
	Producer    Producer
	Interval    time.Duration
	BatchSize   int
	TopicPrefix string
	Source      string
	ID          string
	// Backoff[i] is the delay after the (i+1)th failed attempt; the last
	// entry repeats.
	Backoff []time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

type envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// Run polls until ctx is cancelled. A failed poll is logged and the next tick
// tries again.
func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	interval := w.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
			w.log().Warn("outbox poll failed", "worker_id", w.ID, "error", err)
		}
	}
}

// Drain relays at most one batch. It stops early when the queue is empty or a
// publish fails, and reports how many events reached the broker.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	limit := w.BatchSize
	if limit <= 0 {
		limit = defaultBatchSize
	}
	sent := 0
	for sent < limit {
		msg, err := w.Queue.Claim(ctx, w.ID)
		if err != nil || msg == nil {
			return sent, err
		}
		if pubErr := w.publish(ctx, msg); pubErr != nil {
			w.log().Warn("outbox publish failed", "event_id", msg.ID, "event", msg.Name, "attempts", msg.Attempts+1, "error", pubErr)
			return sent, w.Queue.MarkFailed(ctx, msg.ID, w.retryAt(msg.Attempts), pubErr.Error())
		}
		if err := w.Queue.MarkSent(ctx, msg.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (w *Worker) publish(ctx context.Context, msg *Message) error {
	body, err := w.wrap(msg)
	if err != nil {
		return err
	}
	headers := maps.Clone(msg.Headers)
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	headers["content-type"] = "application/cloudevents+json"
	return w.Producer.Publish(ctx, Topic(w.TopicPrefix, msg.Name), msg.Aggregate, body, headers)
}

func (w *Worker) wrap(msg *Message) ([]byte, error) {
	if !json.Valid(msg.Payload) {
		return nil, fmt.Errorf("%w: %s", ErrPayloadNotJSON, msg.ID)
	}
	source := w.Source
	if source == "" {
		source = defaultSource
	}
	return json.Marshal(envelope{
		SpecVersion:     "1.0",
		ID:              msg.ID,
		Type:            msg.Name + ".v1",
		Source:          source,
		Subject:         msg.Aggregate,
		Time:            msg.OccurredAt,
		DataContentType: "application/json",
		Data:            msg.Payload,
	})
}

// Topic groups events by their leading name segment:
// "booking.cancelled" goes to "<prefix>booking.events.v1".
func Topic(prefix, eventName string) string {
	family, _, _ := strings.Cut(eventName, ".")
	return prefix + family + ".events.v1"
}

func (w *Worker) retryAt(attempts int) time.Time {
	delay := defaultRetry
	if n := len(w.Backoff); n > 0 {
		delay = w.Backoff[min(attempts, n-1)]
	}
	return w.now().Add(delay)
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Worker) log() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// LogProducer stands in for the broker when none is configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(_ context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	if p.Logger != nil {
		p.Logger.Info("event published", "topic", topic, "key", key, "bytes", len(payload))
	}
	return nil
}
