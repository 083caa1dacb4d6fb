// Package matchmaker groups waiting players into rooms. It owns no game
// state of its own: once a group is complete it hands the selected player
// ids off to a RoomInitiator and forgets them.
package matchmaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"durak/internal/room"
)

const bindingTTL = 5 * time.Minute

// bindingCacheSize bounds the expirable LRU; stale bindings are evicted by
// TTL well before this would matter, it's just a backstop.
const bindingCacheSize = 4096

// queueKey groups the FIFO queue a waiting player lands in. Two players
// only ever match if their RoomConfig is identical; room.Config is already
// comparable (three scalar fields), so it doubles as the map key directly.
type queueKey = room.Config

// Status is the outcome of Enqueue.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusMatched Status = "matched"
)

// Result is returned from Enqueue.
type Result struct {
	Status Status
	RoomID string
}

// RoomInitiator is the matchmaker's only collaborator: it hands a freshly
// minted room id, its config, and the pre-selected players off to whatever
// owns the room registry. Grounded on room.NewLobby + Room.Seed: a real
// implementation calls NewLobby(ctx, store, roomID, playerIDs[0], cfg),
// keeping the first id as host, and then Seed(playerIDs) so every grouped
// player, host included, is on the lobby roster.
type RoomInitiator interface {
	InitLobby(roomID string, cfg room.Config, playerIDs []string) error
}

// Matchmaker maintains per-RoomConfig FIFO queues and short-lived
// playerId -> roomId bindings. All operations serialize on a single mutex,
// mirroring the teacher lobby's single-writer-map discipline rather than an
// actor's channel: there is no blocking I/O on this path once a group is
// complete (InitLobby itself owns its own timeout), so a mutex is simpler
// and sufficient here.
type Matchmaker struct {
	mu       sync.Mutex
	queues   map[queueKey][]string
	bindings *expirable.LRU[string, string]
	rooms    RoomInitiator
	newRoomID func() string
}

// New creates a matchmaker that mints rooms via init.
func New(init RoomInitiator) *Matchmaker {
	return &Matchmaker{
		queues:    make(map[queueKey][]string),
		bindings:  expirable.NewLRU[string, string](bindingCacheSize, nil, bindingTTL),
		rooms:     init,
		newRoomID: func() string { return uuid.NewString() },
	}
}

// Enqueue implements spec.md §4.3's algorithm: if playerID already has a
// live binding, return it; otherwise append to the config's queue
// (de-duplicated) and, once the queue reaches maxPlayers, atomically pull
// the head group, mint a room, and bind every grouped player.
func (m *Matchmaker) Enqueue(playerID string, cfg room.Config) (Result, error) {
	if playerID == "" {
		return Result{}, fmt.Errorf("matchmaker: empty player id")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if roomID, ok := m.bindings.Get(playerID); ok {
		return Result{Status: StatusMatched, RoomID: roomID}, nil
	}

	queue := m.queues[cfg]
	if !contains(queue, playerID) {
		queue = append(queue, playerID)
	}
	m.queues[cfg] = queue

	if len(queue) < cfg.MaxPlayers {
		return Result{Status: StatusQueued}, nil
	}

	group := append([]string{}, queue[:cfg.MaxPlayers]...)
	rest := append([]string{}, queue[cfg.MaxPlayers:]...)

	roomID := m.newRoomID()
	if err := m.rooms.InitLobby(roomID, cfg, group); err != nil {
		// MatchFailed: return the group to the head of the queue, relative
		// order preserved, and surface the failure to this caller only —
		// the others simply remain queued as before.
		m.queues[cfg] = append(group, rest...)
		return Result{}, fmt.Errorf("matchmaker: init lobby %s: %w", roomID, err)
	}
	m.queues[cfg] = rest

	for _, id := range group {
		m.bindings.Add(id, roomID)
	}

	matched := contains(group, playerID)
	if matched {
		return Result{Status: StatusMatched, RoomID: roomID}, nil
	}
	return Result{Status: StatusQueued}, nil
}

// QueueLen reports how many players are waiting under cfg, for tests and
// operator diagnostics.
func (m *Matchmaker) QueueLen(cfg room.Config) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues[cfg])
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
