package reviews

import (
	"strings"
	"testing"
	"time"
)

func TestSubmitValidatesRating(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		_, err := Submit(SubmitParams{ID: "r", PropertyID: "p", CustomerID: "c", Rating: rating})
		if err != ErrInvalidRating {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestSubmitTrimsCommentAndRecordsEvent(t *testing.T) {
	at := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	r, err := Submit(SubmitParams{ID: "r-1", PropertyID: "p-1", CustomerID: "c-1", Rating: 5, Comment: "  lovely  ", CreatedAt: at})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Comment != "lovely" {
		t.Fatalf("expected trimmed comment, got %q", r.Comment)
	}
	evs := r.PendingEvents()
	if len(evs) != 1 || evs[0].EventName() != "review.submitted" || !evs[0].OccurredAt().Equal(at) {
		t.Fatalf("unexpected events %v", evs)
	}
}

func TestSubmitRejectsLongComment(t *testing.T) {
	_, err := Submit(SubmitParams{ID: "r", PropertyID: "p", CustomerID: "c", Rating: 3, Comment: strings.Repeat("x", maxCommentLength+1)})
	if err != ErrCommentTooLong {
		t.Fatalf("expected ErrCommentTooLong, got %v", err)
	}
}

func TestAverageRating(t *testing.T) {
	avg, n := AverageRating([]*Review{{Rating: 5}, {Rating: 4}, {Rating: 3}})
	if avg != 4 || n != 3 {
		t.Fatalf("expected 4 over 3, got %v over %d", avg, n)
	}
	if avg, n := AverageRating(nil); avg != 0 || n != 0 {
		t.Fatalf("expected zero values, got %v %d", avg, n)
	}
}
