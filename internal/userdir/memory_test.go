package userdir

import (
	"context"
	"testing"
)

func TestMemoryDirectory_UpsertInsertsThenUpdates(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	first, err := dir.Upsert(ctx, 42, "Ada", "ada", "en")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.ID == 0 || first.ExternalID != 42 {
		t.Fatalf("unexpected row: %+v", first)
	}

	second, err := dir.Upsert(ctx, 42, "Ada Lovelace", "ada", "en")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same row id across upserts, got %d and %d", first.ID, second.ID)
	}
	if second.FirstName != "Ada Lovelace" {
		t.Errorf("expected profile fields refreshed, got %+v", second)
	}
}

func TestMemoryDirectory_DistinctExternalIDsGetDistinctRows(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	a, _ := dir.Upsert(ctx, 1, "A", "a", "en")
	b, _ := dir.Upsert(ctx, 2, "B", "b", "en")
	if a.ID == b.ID {
		t.Errorf("expected distinct row ids, got %d and %d", a.ID, b.ID)
	}
}
