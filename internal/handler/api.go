package handler

import (
	"net/http"

	"bartnow/internal/mapview"
	"bartnow/internal/selection"
	"bartnow/internal/session"
	"bartnow/internal/templates"
)

// eventResponse is what the map script applies after each event. A
// Generation different from the one the page was drawn with means the
// session was rebuilt and Frame is relative to a fresh screen.
type eventResponse struct {
	Generation string          `json:"generation"`
	Frame      mapview.Frame   `json:"frame"`
	Mode       mapview.Mode    `json:"mode"`
	Selection  selection.State `json:"selection"`
}

// State returns the full screen so a client can redraw from scratch.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	state := templates.MapState{Generation: sess.Generation}
	sess.Do(func(p *mapview.Presenter) { state.View = p.Snapshot() })
	h.writeJSON(w, r, http.StatusOK, state)
}

// Search applies the posted query.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.FormValue("q")
	h.eventSession(w, r, func(p *mapview.Presenter) bool {
		p.SearchTextChanged(q)
		return true
	})
}

// SearchCancel clears the query.
func (h *Handler) SearchCancel(w http.ResponseWriter, r *http.Request) {
	h.eventSession(w, r, func(p *mapview.Presenter) bool {
		p.SearchCancelled()
		return true
	})
}

// Tap records a pin tap.
func (h *Handler) Tap(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var found bool
	sess := h.eventSession(w, r, func(p *mapview.Presenter) bool {
		_, found = p.StationTapped(name)
		return found
	})
	if sess != nil && !found {
		h.writeError(w, r, http.StatusNotFound, "unknown station")
	}
}

// ChooseRole assigns the tapped station to the role in the path.
func (h *Handler) ChooseRole(w http.ResponseWriter, r *http.Request) {
	role, ok := selection.ParseRole(r.PathValue("role"))
	if !ok {
		h.writeError(w, r, http.StatusBadRequest, "unknown role")
		return
	}
	var chosen bool
	sess := h.eventSession(w, r, func(p *mapview.Presenter) bool {
		chosen = p.RoleChosen(role)
		return chosen
	})
	if sess == nil {
		return
	}
	if !chosen {
		h.writeError(w, r, http.StatusConflict, "no station tapped")
		return
	}
	h.saveSelection(r, sess)
}

// APIReset clears the search and the trip.
func (h *Handler) APIReset(w http.ResponseWriter, r *http.Request) {
	sess := h.eventSession(w, r, func(p *mapview.Presenter) bool {
		p.Reset()
		return true
	})
	if sess == nil {
		return
	}
	if err := h.sessions.ForgetSelection(r.Context(), sess); err != nil {
		h.logger.Warn("forgetting selection failed", "session", sess.ID, "error", err)
	}
}

// eventSession runs fn on the caller's screen and, when fn reports success,
// writes the resulting frame. It returns nil if the session was unavailable.
func (h *Handler) eventSession(w http.ResponseWriter, r *http.Request, fn func(p *mapview.Presenter) bool) *session.Session {
	sess := h.session(w, r)
	if sess == nil {
		return nil
	}
	var (
		ok   bool
		resp = eventResponse{Generation: sess.Generation}
	)
	resp.Frame = sess.Do(func(p *mapview.Presenter) {
		ok = fn(p)
		resp.Mode = p.Mode()
		resp.Selection = p.Selection()
	})
	if ok {
		h.writeJSON(w, r, http.StatusOK, resp)
	}
	return sess
}
