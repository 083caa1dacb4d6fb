package auth

import "testing"

func TestService_AuthenticateThenVerifySession(t *testing.T) {
	svc := NewService(testBotToken, "app-secret")
	initData := signInitData(t, map[string]string{
		"user": `{"id":7,"first_name":"Bo"}`,
	}, testBotToken)

	user, token, err := svc.Authenticate(initData)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("unexpected user id %d", user.ID)
	}

	playerID, err := svc.VerifySession(token)
	if err != nil {
		t.Fatalf("verify session: %v", err)
	}
	if playerID != "7" {
		t.Errorf("expected playerID \"7\", got %q", playerID)
	}
}

func TestService_AuthenticateRejectsBadHandshake(t *testing.T) {
	svc := NewService(testBotToken, "app-secret")
	if _, _, err := svc.Authenticate("hash=deadbeef&user=%7B%22id%22%3A1%7D"); err == nil {
		t.Fatalf("expected an error for a bad handshake")
	}
}
