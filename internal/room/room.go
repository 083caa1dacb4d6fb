package room

import (
	"context"
	"log"
	"sync"
	"time"

	"durak/internal/durak"
)

// Socket is the room actor's view of a client connection. The gateway
// package supplies the concrete implementation (a gorilla/websocket
// connection's writePump); the room never touches the transport directly.
type Socket interface {
	Send(data []byte) error
	Close(reason string) error
}

const persistTimeout = 5 * time.Second

type eventKind int

const (
	evAttachSocket eventKind = iota
	evDetachSocket
	evSetReady
	evStartGame
	evSubmitAction
	evSeed
	evClose
)

type actorEvent struct {
	kind      eventKind
	playerID  string
	socket    Socket
	ready     bool
	action    durak.Event
	playerIDs []string
	resp      chan error
}

// Room is the single mutator of one room's state (spec.md §4.2). All
// mutations are serialised through the events channel; nothing outside
// run() ever touches state or sockets.
type Room struct {
	ID    string
	store Store

	state   *State
	sockets map[string]Socket

	events chan actorEvent
	done   chan struct{}
	poisoned bool

	stopOnce sync.Once
}

// NewLobby creates a fresh room in the Lobby phase and persists it,
// mirroring initLobby's idempotent-creation contract: if a snapshot for
// roomID already exists it is loaded instead of overwritten.
func NewLobby(ctx context.Context, store Store, roomID, hostID string, cfg Config) (*Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	existing, err := store.Load(ctx, roomID)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	var state *State
	if existing != nil {
		state = existing
	} else {
		state = &State{
			Meta: Meta{
				RoomID:    roomID,
				HostID:    hostID,
				Config:    cfg,
				CreatedAt: time.Now().UTC(),
			},
			LobbyPlayers: nil,
			Phase:        PhaseLobby,
		}
		if err := store.Save(ctx, roomID, state); err != nil {
			return nil, &Error{Code: CodePersistFailed, Detail: err.Error()}
		}
	}

	r := &Room{
		ID:      roomID,
		store:   store,
		state:   state,
		sockets: make(map[string]Socket),
		events:  make(chan actorEvent, 256),
		done:    make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Seed pre-populates the lobby roster, used by the matchmaker when it
// mints a room with players already selected from its queues.
func (r *Room) Seed(playerIDs []string) error {
	return r.submit(actorEvent{kind: evSeed, playerIDs: playerIDs})
}

func (r *Room) handleSeed(playerIDs []string) error {
	prevPlayers := append([]LobbyPlayer(nil), r.state.LobbyPlayers...)
	for _, id := range playerIDs {
		if r.state.lobbyIndex(id) >= 0 {
			continue
		}
		r.state.LobbyPlayers = append(r.state.LobbyPlayers, LobbyPlayer{ID: id})
	}
	if err := r.persist(); err != nil {
		r.state.LobbyPlayers = prevPlayers
		return err
	}
	return nil
}

func (r *Room) run() {
	for {
		select {
		case e := <-r.events:
			err := r.handle(e)
			if e.resp != nil {
				e.resp <- err
			}
		case <-r.done:
			log.Printf("[room %s] actor stopped", r.ID)
			return
		}
	}
}

func (r *Room) handle(e actorEvent) error {
	if r.poisoned {
		return &Error{Code: CodePersistFailed, Detail: "room poisoned, operator intervention required"}
	}
	var err error
	switch e.kind {
	case evAttachSocket:
		// The error-to-socket contract doesn't apply here: on failure the
		// socket isn't registered yet, so the gateway reports it directly.
		return r.handleAttachSocket(e.playerID, e.socket)
	case evDetachSocket:
		delete(r.sockets, e.playerID)
		return nil
	case evSetReady:
		err = r.handleSetReady(e.playerID, e.ready)
	case evStartGame:
		err = r.handleStartGame(e.playerID)
	case evSubmitAction:
		err = r.handleSubmit(e.playerID, e.action)
	case evSeed:
		err = r.handleSeed(e.playerIDs)
	case evClose:
		r.stopLocked()
		return nil
	default:
		err = &Error{Code: CodeUnknownMsg}
	}
	if err != nil && e.kind != evSeed {
		r.sendError(e.playerID, errCode(err), errDetail(err))
	}
	return err
}

func (r *Room) handleAttachSocket(playerID string, socket Socket) error {
	prevPlayers := append([]LobbyPlayer(nil), r.state.LobbyPlayers...)
	switch r.state.Phase {
	case PhaseLobby:
		idx := r.state.lobbyIndex(playerID)
		if idx < 0 {
			if len(r.state.LobbyPlayers) >= r.state.Meta.Config.MaxPlayers {
				return &Error{Code: CodeRoomFull}
			}
			r.state.LobbyPlayers = append(r.state.LobbyPlayers, LobbyPlayer{ID: playerID, Connected: true})
		} else {
			r.state.LobbyPlayers[idx].Connected = true
		}
	case PhasePlaying, PhaseFinished:
		if !inOrder(r.state.Game.Order, playerID) {
			return &Error{Code: CodeNotInGame}
		}
	}

	if err := r.persist(); err != nil {
		r.state.LobbyPlayers = prevPlayers
		return err
	}

	if prior, ok := r.sockets[playerID]; ok {
		_ = prior.Close("replaced")
	}
	r.sockets[playerID] = socket
	r.broadcastAll()
	return nil
}

func (r *Room) handleSetReady(playerID string, ready bool) error {
	if r.state.Phase != PhaseLobby {
		return &Error{Code: CodeRoomNotReady}
	}
	idx := r.state.lobbyIndex(playerID)
	if idx < 0 {
		return &Error{Code: CodeNotInRoom}
	}
	prevReady := r.state.LobbyPlayers[idx].Ready
	r.state.LobbyPlayers[idx].Ready = ready

	if err := r.persist(); err != nil {
		r.state.LobbyPlayers[idx].Ready = prevReady
		return err
	}
	r.broadcastAll()
	return nil
}

func (r *Room) handleStartGame(initiator string) error {
	if initiator != r.state.Meta.HostID {
		return &Error{Code: CodeRoomNotReady, Detail: "only host may start"}
	}
	if r.state.Phase != PhaseLobby {
		return &Error{Code: CodeRoomNotReady, Detail: "room is not in lobby phase"}
	}
	n := len(r.state.LobbyPlayers)
	if n < 2 || n > r.state.Meta.Config.MaxPlayers {
		return &Error{Code: CodeRoomNotReady, Detail: "player count out of range"}
	}
	for _, p := range r.state.LobbyPlayers {
		if !p.Ready {
			return &Error{Code: CodeRoomNotReady, Detail: "not all players ready"}
		}
	}

	ids := make([]string, n)
	for i, p := range r.state.LobbyPlayers {
		ids[i] = p.ID
	}
	game, err := durak.NewGame(ids, durak.Config{
		Mode:     r.state.Meta.Config.Mode,
		DeckSize: r.state.Meta.Config.DeckSize,
	})
	if err != nil {
		return &Error{Code: CodeRoomNotReady, Detail: err.Error()}
	}

	prevPhase, prevGame := r.state.Phase, r.state.Game
	r.state.Phase = PhasePlaying
	r.state.Game = game

	if err := r.persist(); err != nil {
		r.state.Phase, r.state.Game = prevPhase, prevGame
		return err
	}
	r.broadcastAll()
	return nil
}

func (r *Room) handleSubmit(playerID string, action durak.Event) error {
	if r.state.Phase == PhaseFinished {
		return &Error{Code: Code(durak.CodeGameFinished)}
	}
	if r.state.Phase != PhasePlaying {
		return &Error{Code: Code(durak.CodeGameNotPlaying)}
	}
	action.PlayerID = playerID

	next, err := durak.Apply(r.state.Game, action)
	if err != nil {
		// RulesViolation: typed error to the originator only, no mutation.
		if ruleErr, ok := err.(*durak.RuleError); ok {
			return &Error{Code: Code(ruleErr.Code), Detail: ruleErr.Detail}
		}
		return &Error{Code: CodeUnknownMsg, Detail: err.Error()}
	}

	prevGame := r.state.Game
	prevPhase := r.state.Phase
	r.state.Game = next
	if next.Phase == durak.PhaseFinished {
		r.state.Phase = PhaseFinished
	}

	if err := r.persist(); err != nil {
		r.state.Game = prevGame
		r.state.Phase = prevPhase
		return err
	}
	r.broadcastAll()
	return nil
}

func (r *Room) persist() error {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.store.Save(ctx, r.ID, r.state); err != nil {
		return &Error{Code: CodePersistFailed, Detail: err.Error()}
	}
	return nil
}

// broadcastAll sends every attached socket its own view. A write failure
// to one socket is logged and does not affect the others.
func (r *Room) broadcastAll() {
	for playerID, socket := range r.sockets {
		v := viewFor(r.state, playerID)
		if err := socket.Send(stateFrame(v)); err != nil {
			log.Printf("[room %s] broadcast to %s failed: %v", r.ID, playerID, err)
		}
	}
}

func (r *Room) sendError(playerID string, code Code, detail string) {
	socket, ok := r.sockets[playerID]
	if !ok {
		return
	}
	if err := socket.Send(errorFrame(code, detail)); err != nil {
		log.Printf("[room %s] error frame to %s failed: %v", r.ID, playerID, err)
	}
}

func (r *Room) stopLocked() {
	r.stopOnce.Do(func() { close(r.done) })
}

// --- Public actor API: each method submits an event and blocks for the
// result, exactly mirroring the teacher table actor's SubmitEvent shape.

func (r *Room) submit(e actorEvent) error {
	if e.resp == nil {
		e.resp = make(chan error, 1)
	}
	select {
	case r.events <- e:
	case <-r.done:
		return &Error{Code: CodeRoomNotFound, Detail: "room closed"}
	}
	select {
	case err := <-e.resp:
		return err
	case <-r.done:
		return &Error{Code: CodeRoomNotFound, Detail: "room closed"}
	}
}

// AttachSocket handles a JOIN frame.
func (r *Room) AttachSocket(playerID string, socket Socket) error {
	return r.submit(actorEvent{kind: evAttachSocket, playerID: playerID, socket: socket})
}

// DetachSocket unregisters playerID's socket. It is fire-and-forget: it
// queues the event and returns without waiting for the actor's reply.
func (r *Room) DetachSocket(playerID string) {
	r.events <- actorEvent{kind: evDetachSocket, playerID: playerID}
}

// SetReady handles a READY frame.
func (r *Room) SetReady(playerID string, ready bool) error {
	return r.submit(actorEvent{kind: evSetReady, playerID: playerID, ready: ready})
}

// StartGame handles a START frame.
func (r *Room) StartGame(initiator string) error {
	return r.submit(actorEvent{kind: evStartGame, playerID: initiator})
}

// Submit handles an ATTACK/DEFEND/TRANSFER/TAKE/BEAT/PASS frame.
func (r *Room) Submit(playerID string, action durak.Event) error {
	return r.submit(actorEvent{kind: evSubmitAction, playerID: playerID, action: action})
}

// Close shuts the room actor down; in-memory state is discarded, the
// persisted snapshot survives for rehydration on next attachment.
func (r *Room) Close() {
	r.events <- actorEvent{kind: evClose}
}

func errCode(err error) Code {
	if re, ok := err.(*Error); ok {
		return re.Code
	}
	return CodeUnknownMsg
}

func errDetail(err error) string {
	if re, ok := err.(*Error); ok {
		return re.Detail
	}
	return err.Error()
}

func inOrder(order []string, playerID string) bool {
	for _, id := range order {
		if id == playerID {
			return true
		}
	}
	return false
}
