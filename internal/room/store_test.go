package room

import (
	"context"
	"testing"

	"durak/internal/durak"
)

func TestMemoryStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	state := &State{
		Meta: Meta{RoomID: "r1", HostID: "h1", Config: Config{Mode: durak.ModePodkidnoy, DeckSize: durak.Deck36, MaxPlayers: 2}},
		Phase: PhaseLobby,
		LobbyPlayers: []LobbyPlayer{{ID: "h1", Ready: true}},
	}

	if err := store.Save(ctx, "r1", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Meta.HostID != "h1" || loaded.LobbyPlayers[0].ID != "h1" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	// Mutating the loaded copy must not affect the store's own record —
	// Save deep-copies via JSON so callers can't reach back into it.
	loaded.LobbyPlayers[0].Ready = false
	reloaded, err := store.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.LobbyPlayers[0].Ready {
		t.Errorf("store should be isolated from mutations on previously loaded copies")
	}
}

func TestMemoryStoreLoadMissingReturnsNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "nope")
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Save(ctx, "r1", &State{Meta: Meta{RoomID: "r1"}})
	if err := store.Delete(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "r1"); !IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
