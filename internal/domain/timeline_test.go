package domain

import (
	"testing"
	"time"
)

func TestTimeline_Append(t *testing.T) {
	now := time.Now()

	var tl Timeline
	tl = tl.Append("new", "usr_1", "", now)
	tl = tl.Append("approved", "usr_2", "looks good", now.Add(time.Minute))

	if len(tl) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tl))
	}
	if tl[0].Status != "new" || tl[1].Status != "approved" {
		t.Errorf("entries out of order: %v", tl)
	}
	if tl[1].Note != "looks good" {
		t.Errorf("expected note to be kept, got %q", tl[1].Note)
	}
}

func TestTimeline_Last(t *testing.T) {
	var tl Timeline
	if tl.Last() != nil {
		t.Error("expected nil for empty timeline")
	}

	tl = tl.Append("pending", "usr_1", "", time.Now())
	tl = tl.Append("completed", "usr_2", "", time.Now())

	last := tl.Last()
	if last == nil {
		t.Fatal("expected an entry")
	}
	if last.Status != "completed" {
		t.Errorf("expected completed, got %q", last.Status)
	}
}
