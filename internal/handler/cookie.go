package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CookieName is the session cookie set on every browser.
const CookieName = "bartnow_session"

type sessionKey struct{}

// WithSessionID returns a context carrying the session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id put in the context by the session middleware.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// SignCookie produces "sessionID.expiry.hmac" valid for maxAge.
func SignCookie(id string, maxAge time.Duration, secret []byte) string {
	expiry := time.Now().Add(maxAge).Unix()
	payload := fmt.Sprintf("%s.%d", id, expiry)
	return payload + "." + sign(payload, secret)
}

// VerifyCookie checks a "sessionID.expiry.hmac" cookie value.
// Returns the session id on success, "" on failure.
func VerifyCookie(value string, secret []byte) string {
	parts := strings.SplitN(value, ".", 3)
	if len(parts) != 3 {
		return ""
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload, secret))) {
		return ""
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || time.Now().Unix() > expiry {
		return ""
	}
	return parts[0]
}

func sign(payload string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SetSessionCookie writes a freshly signed session cookie.
func SetSessionCookie(w http.ResponseWriter, id string, maxAge time.Duration, secret []byte) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    SignCookie(id, maxAge, secret),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
