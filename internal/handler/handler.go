package handler

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"sort"

	"github.com/a-h/templ"

	"bartnow/internal/config"
	"bartnow/internal/realtime"
	"bartnow/internal/session"
	"bartnow/internal/templates"
)

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	sessions     *session.Store
	rt           *realtime.Store
	cfg          *config.Config
	logger       *slog.Logger
	version      string // content hash of static assets, for cache busting
	cookieSecret []byte // HMAC key for signing session cookies
}

// New creates a Handler. static is the embedded asset tree used for the
// cache-busting version.
func New(sessions *session.Store, rt *realtime.Store, static fs.FS, cfg *config.Config, logger *slog.Logger) (*Handler, error) {
	v := computeAssetVersion(static)
	logger.Info("asset version computed", "version", v)

	secret := []byte(cfg.CookieSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate cookie secret: %w", err)
		}
		logger.Warn("no BARTNOW_COOKIE_SECRET set, generated random secret (sessions won't survive restart)")
	}

	return &Handler{sessions: sessions, rt: rt, cfg: cfg, logger: logger, version: v, cookieSecret: secret}, nil
}

// CookieSecret returns the key the session middleware verifies cookies with.
func (h *Handler) CookieSecret() []byte {
	return h.cookieSecret
}

// computeAssetVersion hashes all CSS and JS files in the static tree
// to produce a short version string. Changes to any file produce a new version.
func computeAssetVersion(static fs.FS) string {
	hash := md5.New()
	var paths []string
	fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if ext := path.Ext(p); ext == ".css" || ext == ".js" {
			paths = append(paths, p)
		}
		return nil
	})
	sort.Strings(paths) // deterministic order
	for _, p := range paths {
		f, err := static.Open(p)
		if err != nil {
			continue
		}
		io.Copy(hash, f)
		f.Close()
	}
	return fmt.Sprintf("%x", hash.Sum(nil))[:8]
}

// page creates a templates.Page with the asset version pre-filled.
func (h *Handler) page(title, currentPath string) templates.Page {
	return templates.Page{
		Title:        title,
		CurrentPath:  currentPath,
		AssetVersion: h.version,
	}
}

// session returns the caller's map screen. It writes a 500 and returns nil
// when the session cannot be built.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := SessionID(r.Context())
	if id == "" {
		h.logger.Error("request without session id", "path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		h.logger.Error("session lookup failed", "session", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	return sess
}

// saveSelection persists the trip; failures only cost durability.
func (h *Handler) saveSelection(r *http.Request, sess *session.Session) {
	if err := h.sessions.SaveSelection(r.Context(), sess); err != nil {
		h.logger.Warn("saving selection failed", "session", sess.ID, "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, map[string]string{"error": msg})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("render failed", "path", r.URL.Path, "error", err)
	}
}
