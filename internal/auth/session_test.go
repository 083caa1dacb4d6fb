package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSessionSigner_MintAndVerifyRoundTrip(t *testing.T) {
	signer := NewSessionSigner("app-secret")
	token, err := signer.Mint("player-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	payload, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.PlayerID != "player-1" {
		t.Errorf("expected player-1, got %q", payload.PlayerID)
	}
}

func TestSessionSigner_RejectsTamperedPayload(t *testing.T) {
	signer := NewSessionSigner("app-secret")
	token, _ := signer.Mint("player-1")
	encoded, mac, _ := strings.Cut(token, ".")
	tampered := encoded + "x." + mac

	if _, err := signer.Verify(tampered); err != ErrMalformedSession {
		t.Errorf("expected ErrMalformedSession, got %v", err)
	}
}

func TestSessionSigner_RejectsForeignSecret(t *testing.T) {
	issuer := NewSessionSigner("app-secret")
	verifier := NewSessionSigner("different-secret")

	token, _ := issuer.Mint("player-1")
	if _, err := verifier.Verify(token); err != ErrMalformedSession {
		t.Errorf("expected ErrMalformedSession, got %v", err)
	}
}

func TestSessionSigner_RejectsExpiredToken(t *testing.T) {
	signer := NewSessionSigner("app-secret").WithTTL(-1 * time.Second)
	token, err := signer.Mint("player-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := signer.Verify(token); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionSigner_RejectsMalformedToken(t *testing.T) {
	signer := NewSessionSigner("app-secret")
	if _, err := signer.Verify("not-a-real-token"); err != ErrMalformedSession {
		t.Errorf("expected ErrMalformedSession, got %v", err)
	}
}
