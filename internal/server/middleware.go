package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bartnow/internal/handler"
	"bartnow/internal/session"
)

func withMiddleware(h http.Handler, logger *slog.Logger, cookieSecret []byte, ttl time.Duration) http.Handler {
	return securityHeaders(requestLogger(withSession(h, cookieSecret, ttl, logger), logger))
}

// withSession attaches the browser's map session to the request context,
// issuing a new signed cookie when none is present or it fails to verify.
// Static assets and the manifest pass through without one.
func withSession(next http.Handler, secret []byte, ttl time.Duration, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p == "/manifest.json" || strings.HasPrefix(p, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		var id string
		if cookie, err := r.Cookie(handler.CookieName); err == nil {
			id = handler.VerifyCookie(cookie.Value, secret)
		}
		if id == "" {
			id = session.NewID()
			logger.Debug("new session", "session", id)
		}
		// Re-signing slides the expiry along with the session's idle TTL.
		handler.SetSessionCookie(w, id, ttl, secret)

		next.ServeHTTP(w, r.WithContext(handler.WithSessionID(r.Context(), id)))
	})
}

func requestLogger(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// staticCacheHandler sets long cache headers on versioned static assets (?v=...).
// Unversioned requests get no-cache to ensure fresh content.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "" {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
