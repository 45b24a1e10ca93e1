package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := NewRecorder(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndRecent(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	events := []Entry{
		{Entity: "expense", Action: "created", UserID: "u1"},
		{Entity: "budget", Action: "created", UserID: "u1"},
		{Entity: "expense", Action: "deleted", UserID: "u2"},
	}
	for _, e := range events {
		if err := r.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := r.Recent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for u1, got %d", len(got))
	}
	// Newest first
	if got[0].Entity != "budget" || got[1].Entity != "expense" {
		t.Errorf("unexpected order: %v, %v", got[0].Entity, got[1].Entity)
	}
	if got[0].OccurredAt.IsZero() {
		t.Error("occurred_at should be populated")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := r.Record(ctx, Entry{Entity: "expense", Action: "created", UserID: "u1"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := r.Recent(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 entries, got %d", len(got))
	}
}

func TestCountSince(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	if err := r.Record(ctx, Entry{Entity: "expense", Action: "created", UserID: "u1", OccurredAt: old}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := r.Record(ctx, Entry{Entity: "expense", Action: "created", UserID: "u1"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := r.Record(ctx, Entry{Entity: "due", Action: "settled", UserID: "u1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	counts, err := r.CountSince(ctx, "u1", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if counts["expense"] != 2 {
		t.Errorf("expense count = %d, want 2", counts["expense"])
	}
	if counts["due"] != 1 {
		t.Errorf("due count = %d, want 1", counts["due"])
	}
}
