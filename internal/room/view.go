package room

import "durak/internal/durak"

// View is the outbound "state" payload of a STATE frame (spec.md §4.2,
// §6). It never embeds durak.GameState directly — only the addressee's
// own durak.View, which already enforces hand privacy.
type View struct {
	RoomID       string        `json:"roomId"`
	Phase        Phase         `json:"phase"`
	HostID       string        `json:"hostId"`
	LobbyPlayers []LobbyPlayer `json:"lobbyPlayers"`
	Game         *durak.View   `json:"game,omitempty"`
}

// viewFor computes the player-specific broadcast view. Building it from
// the room's own State plus a durak.ViewFor call keeps the privacy
// invariant mechanical: nothing here can accidentally leak another
// player's hand, because durak.View never carries one.
func viewFor(s *State, playerID string) View {
	v := View{
		RoomID:       s.Meta.RoomID,
		Phase:        s.Phase,
		HostID:       s.Meta.HostID,
		LobbyPlayers: append([]LobbyPlayer(nil), s.LobbyPlayers...),
	}
	if s.Game != nil {
		gv := durak.ViewFor(s.Game, playerID)
		v.Game = &gv
	}
	return v
}
