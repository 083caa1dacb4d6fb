package room

import (
	"encoding/json"
	"fmt"

	"durak/internal/durak"
)

// ClientFrame is the client->server wire message from spec.md §6, decoded
// once into a closed variant rather than dispatched on the raw "type"
// string at every call site (spec.md §9's "replacing dynamic message
// dispatch" note).
type ClientFrame struct {
	Type        string      `json:"type"`
	SessionToken string     `json:"sessionToken,omitempty"`
	Ready       *bool       `json:"ready,omitempty"`
	Card        string      `json:"card,omitempty"`
	AttackIndex int         `json:"attackIndex,omitempty"`
}

const (
	FrameJoin     = "JOIN"
	FrameReady    = "READY"
	FrameStart    = "START"
	FrameAttack   = "ATTACK"
	FrameDefend   = "DEFEND"
	FrameTransfer = "TRANSFER"
	FrameTake     = "TAKE"
	FrameBeat     = "BEAT"
	FramePass     = "PASS"
)

// DecodeClientFrame parses a single inbound WS text frame.
func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return ClientFrame{}, err
	}
	if f.Type == "" {
		return ClientFrame{}, fmt.Errorf("missing frame type")
	}
	return f, nil
}

// AsGameEvent converts an action frame (ATTACK/DEFEND/TRANSFER/TAKE/BEAT/
// PASS) into the rules engine's Event. Returns ok=false for frames that
// are not game actions (JOIN/READY/START), which the room actor handles
// directly instead of forwarding to R.
func (f ClientFrame) AsGameEvent(playerID string) (durak.Event, bool, error) {
	var actionType durak.ActionType
	switch f.Type {
	case FrameAttack:
		actionType = durak.ActionAttack
	case FrameDefend:
		actionType = durak.ActionDefend
	case FrameTransfer:
		actionType = durak.ActionTransfer
	case FrameTake:
		actionType = durak.ActionTake
	case FrameBeat:
		actionType = durak.ActionBeat
	case FramePass:
		actionType = durak.ActionPass
	default:
		return durak.Event{}, false, nil
	}

	event := durak.Event{PlayerID: playerID, Type: actionType, AttackIndex: f.AttackIndex}
	if f.Card != "" {
		card, err := durak.ParseCard(f.Card)
		if err != nil {
			return durak.Event{}, true, &Error{Code: CodeBadJSON, Detail: "bad card token"}
		}
		event.Card = card
	}
	return event, true, nil
}

// ServerFrame is the server->client envelope; per frame type only its own
// omitempty fields are populated: State for STATE, Message for INFO, Code
// and Detail for ERROR.
type ServerFrame struct {
	Type    string `json:"type"`
	State   *View  `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Code    Code   `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func stateFrame(v View) []byte {
	raw, _ := json.Marshal(ServerFrame{Type: "STATE", State: &v})
	return raw
}

func infoFrame(message string) []byte {
	raw, _ := json.Marshal(ServerFrame{Type: "INFO", Message: message})
	return raw
}

func errorFrame(code Code, detail string) []byte {
	raw, _ := json.Marshal(ServerFrame{Type: "ERROR", Code: code, Detail: detail})
	return raw
}
