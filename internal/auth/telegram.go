// Package auth validates the Telegram WebApp handshake and mints/verifies
// the HMAC session tokens the rest of the system treats as bearer auth.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrMalformedInitData = errors.New("auth: malformed initData")
	ErrHashMismatch      = errors.New("auth: hash mismatch")
)

// TelegramUser is the subset of the WebApp initData "user" field the rest
// of the system needs.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// ValidateInitData runs the handshake: build the sorted data-check string,
// derive the WebApp secret key from botToken, and compare the expected MAC
// against the caller-supplied hash in constant time.
func ValidateInitData(initData, botToken string) (TelegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return TelegramUser{}, ErrMalformedInitData
	}

	hash := values.Get("hash")
	if hash == "" {
		return TelegramUser{}, ErrMalformedInitData
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(pairs, "\n")

	secretKey := hmacSum([]byte("WebAppData"), []byte(botToken))
	expected := hex.EncodeToString(hmacSum(secretKey, []byte(dataCheckString)))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(hash))) != 1 {
		return TelegramUser{}, ErrHashMismatch
	}

	rawUser := values.Get("user")
	if rawUser == "" {
		return TelegramUser{}, ErrMalformedInitData
	}
	var user TelegramUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID == 0 {
		return TelegramUser{}, ErrMalformedInitData
	}
	return user, nil
}

func hmacSum(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
