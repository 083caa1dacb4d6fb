package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Service is the auth contract the HTTP layer depends on: validate a
// Telegram handshake into a session, and verify a bearer session on
// subsequent requests.
type Service struct {
	botToken string
	signer   *SessionSigner
}

// NewService builds a Service from a configured bot token and app secret.
func NewService(botToken, appSecret string) *Service {
	return &Service{botToken: botToken, signer: NewSessionSigner(appSecret)}
}

// NewServiceFromEnv reads TELEGRAM_BOT_TOKEN and SESSION_APP_SECRET; both
// are required, mirroring the closed config set in spec.md §6.
func NewServiceFromEnv() (*Service, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("auth: TELEGRAM_BOT_TOKEN is required")
	}
	appSecret := os.Getenv("SESSION_APP_SECRET")
	if appSecret == "" {
		return nil, fmt.Errorf("auth: SESSION_APP_SECRET is required")
	}
	svc := NewService(botToken, appSecret)
	if raw := os.Getenv("SESSION_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("auth: invalid SESSION_TTL_SECONDS %q", raw)
		}
		svc.signer = svc.signer.WithTTL(time.Duration(seconds) * time.Second)
	}
	return svc, nil
}

// Authenticate validates initData and mints a fresh session for the
// embedded Telegram user, per POST /api/auth/telegram.
func (s *Service) Authenticate(initData string) (TelegramUser, string, error) {
	user, err := ValidateInitData(initData, s.botToken)
	if err != nil {
		return TelegramUser{}, "", err
	}
	token, err := s.signer.Mint(strconv.FormatInt(user.ID, 10))
	if err != nil {
		return TelegramUser{}, "", err
	}
	return user, token, nil
}

// VerifySession checks a bearer token and returns the player id it names.
func (s *Service) VerifySession(token string) (playerID string, err error) {
	payload, err := s.signer.Verify(token)
	if err != nil {
		return "", err
	}
	return payload.PlayerID, nil
}
