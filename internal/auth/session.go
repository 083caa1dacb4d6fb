package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const DefaultSessionTTL = 2 * time.Hour

var (
	ErrMalformedSession = errors.New("auth: malformed session token")
	ErrSessionExpired   = errors.New("auth: session expired")
)

// SessionPayload is the claim set carried inside a session token.
type SessionPayload struct {
	PlayerID  string `json:"playerId"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// SessionSigner mints and verifies stateless bearer tokens of the form
// base64url(payload) + "." + hex(HMAC_SHA256(appSecret, base64url(payload))).
// There is no server-side session table: anyone holding appSecret can
// verify a token without a round trip to storage.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionSigner builds a signer with the default 2-hour TTL.
func NewSessionSigner(appSecret string) *SessionSigner {
	return &SessionSigner{secret: []byte(appSecret), ttl: DefaultSessionTTL}
}

// WithTTL overrides the signer's session lifetime; used by tests that need
// to exercise expiry without sleeping.
func (s *SessionSigner) WithTTL(ttl time.Duration) *SessionSigner {
	return &SessionSigner{secret: s.secret, ttl: ttl}
}

// Mint issues a fresh token for playerID, stamped with the signer's TTL.
func (s *SessionSigner) Mint(playerID string) (string, error) {
	now := time.Now().UTC()
	payload := SessionPayload{
		PlayerID:  playerID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	mac := hex.EncodeToString(hmacSum(s.secret, []byte(encoded)))
	return encoded + "." + mac, nil
}

// Verify recomputes the MAC in constant time and checks expiry.
func (s *SessionSigner) Verify(token string) (SessionPayload, error) {
	encoded, mac, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || mac == "" {
		return SessionPayload{}, ErrMalformedSession
	}

	expected := hex.EncodeToString(hmacSum(s.secret, []byte(encoded)))
	if !constantTimeEqual(expected, mac) {
		return SessionPayload{}, ErrMalformedSession
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return SessionPayload{}, ErrMalformedSession
	}
	var payload SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return SessionPayload{}, ErrMalformedSession
	}
	if time.Now().UTC().Unix() >= payload.ExpiresAt {
		return SessionPayload{}, ErrSessionExpired
	}
	return payload, nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
