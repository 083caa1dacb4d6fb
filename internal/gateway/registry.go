// Package gateway is the HTTP/WebSocket front door: it terminates
// connections, authenticates requests, and forwards decoded frames to the
// room actor and matchmaker that own the actual state.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"durak/internal/room"
)

// Registry owns the set of live room actors for this process. It is the
// gateway's RoomInitiator implementation for the matchmaker, and the
// lookup table handleJoin and handleFrame use to find the room a
// connection names.
type Registry struct {
	mu    sync.RWMutex
	store room.Store
	rooms map[string]*room.Room
}

func NewRegistry(store room.Store) *Registry {
	return &Registry{store: store, rooms: make(map[string]*room.Room)}
}

// CreateRoom handles POST /api/room/create: mints a fresh room id, hosted
// by the caller, and registers it.
func (g *Registry) CreateRoom(hostID string, cfg room.Config) (string, error) {
	roomID := uuid.NewString()
	r, err := room.NewLobby(context.Background(), g.store, roomID, hostID, cfg)
	if err != nil {
		return "", err
	}
	if err := r.Seed([]string{hostID}); err != nil {
		return "", err
	}
	g.mu.Lock()
	g.rooms[roomID] = r
	g.mu.Unlock()
	return roomID, nil
}

// InitLobby implements matchmaker.RoomInitiator: mints the room under a
// caller-provided id and pre-seeds it with the grouped players.
func (g *Registry) InitLobby(roomID string, cfg room.Config, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return fmt.Errorf("gateway: cannot init a room with no players")
	}
	r, err := room.NewLobby(context.Background(), g.store, roomID, playerIDs[0], cfg)
	if err != nil {
		return err
	}
	if err := r.Seed(playerIDs); err != nil {
		return err
	}
	g.mu.Lock()
	g.rooms[roomID] = r
	g.mu.Unlock()
	return nil
}

// Get returns the live actor for roomID, rehydrating it from the store if
// it isn't currently running in this process (idle eviction, or another
// process minted it).
func (g *Registry) Get(roomID string) (*room.Room, error) {
	g.mu.RLock()
	r, ok := g.rooms[roomID]
	g.mu.RUnlock()
	if ok {
		return r, nil
	}

	existing, err := g.store.Load(context.Background(), roomID)
	if err != nil {
		return nil, err
	}
	r, err = room.NewLobby(context.Background(), g.store, roomID, existing.Meta.HostID, existing.Meta.Config)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.rooms[roomID] = r
	g.mu.Unlock()
	return r, nil
}

// Evict removes a closed room from the registry, keeping the live-room map
// bounded; the persisted snapshot survives for a later rehydration.
func (g *Registry) Evict(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, roomID)
}
