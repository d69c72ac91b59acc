package memory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Hour)

	rec := NewRecord("alice", time.Now())
	rec.State = "collecting"
	rec.Language = "ur"
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.State != "collecting" || loaded.Language != "ur" {
		t.Errorf("loaded = %+v", loaded)
	}

	// mutations to the loaded copy must not leak back into the store
	loaded.State = "answered"
	again, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if again.State != "collecting" {
		t.Errorf("store shared state with caller: %s", again.State)
	}
}

func TestInMemoryNotFound(t *testing.T) {
	store := NewInMemoryStore(time.Hour)
	if _, err := store.Load(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryRetentionExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Hour)

	current := time.Now()
	store.now = func() time.Time { return current }
	if err := store.Save(ctx, NewRecord("bob", current)); err != nil {
		t.Fatal(err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := store.Load(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expiry after retention window, got %v", err)
	}
}

func TestRecordAppendWindow(t *testing.T) {
	rec := NewRecord("carol", time.Now())
	for i := 0; i < 15; i++ {
		rec.Append(Message{Role: RoleUser, Content: "msg"}, 10)
	}
	if len(rec.Messages) != 10 {
		t.Errorf("window kept %d messages, want 10", len(rec.Messages))
	}
	for i, msg := range rec.Messages {
		if msg.ID == "" {
			t.Errorf("message %d has no ID", i)
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Hour)
	if err := store.Delete(ctx, "ghost"); err != nil {
		t.Errorf("deleting a missing record should succeed, got %v", err)
	}
}
