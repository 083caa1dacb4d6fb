package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"durak/internal/auth"
	"durak/internal/durak"
	"durak/internal/matchmaker"
	"durak/internal/room"
	"durak/internal/userdir"
)

// Server wires the four HTTP/WS entry points from spec.md §6 to the
// registry, matchmaker, auth, and user-directory collaborators. It holds
// no game state itself.
type Server struct {
	registry *Registry
	mm       *matchmaker.Matchmaker
	authSvc  *auth.Service
	users    userdir.Directory
}

func NewServer(registry *Registry, mm *matchmaker.Matchmaker, authSvc *auth.Service, users userdir.Directory) *Server {
	return &Server{registry: registry, mm: mm, authSvc: authSvc, users: users}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/telegram", s.handleAuthTelegram)
	mux.HandleFunc("POST /api/matchmaking", s.handleMatchmaking)
	mux.HandleFunc("POST /api/room/create", s.handleRoomCreate)
	mux.HandleFunc("GET /ws/{roomId}", s.handleWebSocket)
}

type telegramAuthRequest struct {
	InitData string `json:"initData"`
}

type telegramAuthResponse struct {
	SessionToken string      `json:"sessionToken"`
	User         userSummary `json:"user"`
}

type userSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Username  string `json:"username"`
}

func (s *Server) handleAuthTelegram(w http.ResponseWriter, r *http.Request) {
	var req telegramAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.authSvc.Authenticate(req.InitData)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "handshake validation failed")
		return
	}

	if s.users != nil {
		if _, err := s.users.Upsert(r.Context(), user.ID, user.FirstName, user.Username, user.LanguageCode); err != nil {
			log.Printf("[gateway] user directory upsert failed for %d: %v", user.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, telegramAuthResponse{
		SessionToken: token,
		User: userSummary{
			ID:        strconv.FormatInt(user.ID, 10),
			FirstName: user.FirstName,
			Username:  user.Username,
		},
	})
}

type matchmakingRequest struct {
	Mode       durak.Mode     `json:"mode"`
	DeckSize   durak.DeckSize `json:"deckSize"`
	MaxPlayers int            `json:"maxPlayers"`
}

type matchmakingResponse struct {
	Status string `json:"status"`
	RoomID string `json:"roomId,omitempty"`
	WSURL  string `json:"wsUrl,omitempty"`
}

func (s *Server) handleMatchmaking(w http.ResponseWriter, r *http.Request) {
	playerID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req matchmakingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg := room.Config{Mode: req.Mode, DeckSize: req.DeckSize, MaxPlayers: req.MaxPlayers}

	result, err := s.mm.Enqueue(playerID, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if result.Status == matchmaker.StatusMatched {
		writeJSON(w, http.StatusOK, matchmakingResponse{
			Status: "matched",
			RoomID: result.RoomID,
			WSURL:  wsURL(result.RoomID),
		})
		return
	}
	writeJSON(w, http.StatusOK, matchmakingResponse{Status: "queued"})
}

type roomCreateResponse struct {
	RoomID string      `json:"roomId"`
	WSURL  string      `json:"wsUrl"`
	Config room.Config `json:"config"`
}

func (s *Server) handleRoomCreate(w http.ResponseWriter, r *http.Request) {
	playerID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req matchmakingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg := room.Config{Mode: req.Mode, DeckSize: req.DeckSize, MaxPlayers: req.MaxPlayers}

	roomID, err := s.registry.CreateRoom(playerID, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "room init failed")
		return
	}

	writeJSON(w, http.StatusOK, roomCreateResponse{RoomID: roomID, WSURL: wsURL(roomID), Config: cfg})
}

// handleWebSocket upgrades the connection, then expects the first frame to
// be a JOIN carrying the bearer session token (spec.md §6's WS frame
// format has no separate auth header, so the handshake happens in-band).
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		writeError(w, http.StatusNotFound, "missing roomId")
		return
	}

	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade failed: %v", err)
		return
	}
	conn := newConnection(rawConn)
	conn.roomID = roomID

	go conn.writePump()
	conn.readPump(func(data []byte) {
		s.handleFrame(conn, roomID, data)
	})
}

func (s *Server) handleFrame(conn *Connection, roomID string, data []byte) {
	frame, err := room.DecodeClientFrame(data)
	if err != nil {
		_ = conn.Send(errorFrameBytes(room.CodeBadJSON, err.Error()))
		return
	}

	if frame.Type == room.FrameJoin {
		s.handleJoin(conn, roomID, frame)
		return
	}
	if conn.playerID == "" || conn.IsClosed() {
		_ = conn.Send(errorFrameBytes(room.CodeNotJoined, "send JOIN first"))
		return
	}

	r, err := s.registry.Get(roomID)
	if err != nil {
		_ = conn.Send(errorFrameBytes(room.CodeRoomNotFound, ""))
		return
	}

	switch frame.Type {
	case room.FrameReady:
		ready := frame.Ready != nil && *frame.Ready
		if err := r.SetReady(conn.playerID, ready); err != nil {
			log.Printf("[gateway] SetReady failed for %s: %v", conn.playerID, err)
		}
	case room.FrameStart:
		if err := r.StartGame(conn.playerID); err != nil {
			log.Printf("[gateway] StartGame failed for %s: %v", conn.playerID, err)
		}
	default:
		event, ok, err := frame.AsGameEvent(conn.playerID)
		if err != nil {
			_ = conn.Send(errorFrameBytes(room.CodeBadJSON, err.Error()))
			return
		}
		if !ok {
			_ = conn.Send(errorFrameBytes(room.CodeUnknownMsg, frame.Type))
			return
		}
		if err := r.Submit(conn.playerID, event); err != nil {
			log.Printf("[gateway] Submit failed for %s: %v", conn.playerID, err)
		}
	}
}

func (s *Server) handleJoin(conn *Connection, roomID string, frame room.ClientFrame) {
	playerID, err := s.authSvc.VerifySession(frame.SessionToken)
	if err != nil {
		_ = conn.Send(errorFrameBytes(room.CodeBadSession, err.Error()))
		_ = conn.Close("bad session")
		return
	}

	r, err := s.registry.Get(roomID)
	if err != nil {
		_ = conn.Send(errorFrameBytes(room.CodeRoomNotFound, ""))
		_ = conn.Close("room not found")
		return
	}

	if err := r.AttachSocket(playerID, conn); err != nil {
		code := room.CodeRoomNotFound
		detail := err.Error()
		if roomErr, ok := err.(*room.Error); ok {
			code = roomErr.Code
			detail = roomErr.Detail
		}
		_ = conn.Send(errorFrameBytes(code, detail))
		_ = conn.Close("attach rejected")
		return
	}
	conn.playerID = playerID
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return "", false
	}
	playerID, err := s.authSvc.VerifySession(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
		return "", false
	}
	return playerID, true
}

func wsURL(roomID string) string {
	return "/ws/" + roomID
}

func errorFrameBytes(code room.Code, detail string) []byte {
	raw, _ := json.Marshal(struct {
		Type   string    `json:"type"`
		Code   room.Code `json:"code"`
		Detail string    `json:"detail,omitempty"`
	}{Type: "ERROR", Code: code, Detail: detail})
	return raw
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func bearerToken(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
