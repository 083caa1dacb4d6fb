package gateway

import (
	"encoding/json"
	"testing"

	"durak/internal/auth"
	"durak/internal/durak"
	"durak/internal/room"
	"durak/internal/userdir"
)

func testServer(t *testing.T) (*Server, *Registry) {
	t.Helper()
	registry := NewRegistry(room.NewMemoryStore())
	authSvc := auth.NewService("test-bot-token", "test-app-secret")
	srv := NewServer(registry, nil, authSvc, userdir.NewMemoryDirectory())
	return srv, registry
}

func drainFrame(t *testing.T, conn *Connection) map[string]any {
	t.Helper()
	select {
	case data := <-conn.send:
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("bad frame json: %v", err)
		}
		return m
	default:
		t.Fatalf("expected a frame, got none")
		return nil
	}
}

func TestHandleJoinAttachesKnownSession(t *testing.T) {
	srv, registry := testServer(t)
	cfg := room.Config{Mode: durak.ModePodkidnoy, DeckSize: durak.Deck36, MaxPlayers: 2}
	roomID, err := registry.CreateRoom("host-1", cfg)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	mintedToken := mintTestSession(t, "host-1")
	conn := newConnection(nil)
	srv.handleFrame(conn, roomID, joinFrame(mintedToken))

	if conn.playerID != "host-1" {
		t.Errorf("expected playerID set to host-1, got %q", conn.playerID)
	}

	frame := drainFrame(t, conn)
	if frame["type"] != "STATE" {
		t.Errorf("expected a STATE frame after attach, got %+v", frame)
	}
}

func TestHandleJoinRejectsBadSession(t *testing.T) {
	srv, registry := testServer(t)
	cfg := room.Config{Mode: durak.ModePodkidnoy, DeckSize: durak.Deck36, MaxPlayers: 2}
	roomID, _ := registry.CreateRoom("host-1", cfg)

	conn := newConnection(nil)
	srv.handleFrame(conn, roomID, joinFrame("not-a-real-token"))

	if conn.playerID != "" {
		t.Errorf("expected playerID unset after a bad session, got %q", conn.playerID)
	}
	frame := drainFrame(t, conn)
	if frame["type"] != "ERROR" || frame["code"] != string(room.CodeBadSession) {
		t.Errorf("expected a BAD_SESSION error frame, got %+v", frame)
	}
}

func TestHandleFrameRejectsActionsBeforeJoin(t *testing.T) {
	srv, registry := testServer(t)
	cfg := room.Config{Mode: durak.ModePodkidnoy, DeckSize: durak.Deck36, MaxPlayers: 2}
	roomID, _ := registry.CreateRoom("host-1", cfg)

	conn := newConnection(nil)
	srv.handleFrame(conn, roomID, []byte(`{"type":"READY","ready":true}`))

	frame := drainFrame(t, conn)
	if frame["type"] != "ERROR" || frame["code"] != string(room.CodeNotJoined) {
		t.Errorf("expected a NOT_JOINED error frame, got %+v", frame)
	}
}

// mintTestSession mints a token under the same app secret testServer uses,
// bypassing the Telegram handshake (which has its own tests in the auth
// package) to focus these tests on frame dispatch.
func mintTestSession(t *testing.T, playerID string) string {
	t.Helper()
	token, err := auth.NewSessionSigner("test-app-secret").Mint(playerID)
	if err != nil {
		t.Fatalf("mint session: %v", err)
	}
	return token
}

func joinFrame(token string) []byte {
	raw, _ := json.Marshal(map[string]string{"type": "JOIN", "sessionToken": token})
	return raw
}
