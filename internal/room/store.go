package room

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StoreModeMemory = "memory"
	StoreModeRedis  = "redis"
)

// Store persists the full room State under key room/{roomId}, per spec.md
// §6. The room actor is the only writer; reads are only ever used to
// rehydrate a room actor that isn't currently running.
type Store interface {
	Save(ctx context.Context, roomID string, state *State) error
	Load(ctx context.Context, roomID string) (*State, error)
	Delete(ctx context.Context, roomID string) error
	Close() error
}

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("ROOM_STORE_MODE")))
	switch raw {
	case "", StoreModeMemory, "mem":
		return StoreModeMemory
	case StoreModeRedis:
		return StoreModeRedis
	default:
		return raw
	}
}

// NewStoreFromEnv picks the persistence backend from ROOM_STORE_MODE
// (memory, the default, or redis), mirroring the auth package's
// NewServiceFromEnv factory shape.
func NewStoreFromEnv() (Store, string, error) {
	mode := storeModeFromEnv()
	switch mode {
	case StoreModeMemory:
		return NewMemoryStore(), mode, nil
	case StoreModeRedis:
		store, err := NewRedisStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid ROOM_STORE_MODE %q (supported: %s, %s)", mode, StoreModeMemory, StoreModeRedis)
	}
}

// MemoryStore keeps rooms in a process-local map. It is the default store
// and is sufficient for a single-instance deployment or tests.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*State)}
}

func (m *MemoryStore) Save(_ context.Context, roomID string, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	var clone State
	if err := json.Unmarshal(raw, &clone); err != nil {
		return err
	}
	m.rooms[roomID] = &clone
	return nil
}

func (m *MemoryStore) Load(_ context.Context, roomID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.rooms[roomID]
	if !ok {
		return nil, errRoomNotFound(roomID)
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	var clone State
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

func (m *MemoryStore) Delete(_ context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// RedisStore persists each room as a single JSON blob under key
// room/{roomId}, so a crashed gateway instance can rehydrate a room actor
// on the next submitted event rather than losing in-flight games.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const defaultRoomTTL = 6 * time.Hour

func NewRedisStoreFromEnv() (*RedisStore, error) {
	addr := strings.TrimSpace(os.Getenv("ROOM_REDIS_ADDR"))
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("ROOM_REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &RedisStore{client: client, ttl: defaultRoomTTL}, nil
}

func roomKey(roomID string) string {
	return "room/" + roomID
}

func (r *RedisStore) Save(ctx context.Context, roomID string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, roomKey(roomID), raw, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, roomID string) (*State, error) {
	raw, err := r.client.Get(ctx, roomKey(roomID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errRoomNotFound(roomID)
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *RedisStore) Delete(ctx context.Context, roomID string) error {
	return r.client.Del(ctx, roomKey(roomID)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
