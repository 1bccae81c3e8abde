package handler

import (
	"net/http"

	"bartnow/internal/mapview"
	"bartnow/internal/templates"
)

// Home serves the map page. A q parameter runs a search before drawing.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var view mapview.View
	q, hasQuery := r.URL.Query()["q"]
	sess.Do(func(p *mapview.Presenter) {
		if hasQuery {
			p.SearchTextChanged(q[0])
		}
		view = p.Snapshot()
	})

	h.render(w, r, templates.MapPage(templates.MapData{
		Page:         h.page("Map", "/"),
		View:         view,
		Generation:   sess.Generation,
		SystemAlerts: h.systemAlerts(),
	}))
}

// Reset clears the search and the trip, then returns to the map.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	sess.Do(func(p *mapview.Presenter) { p.Reset() })
	if err := h.sessions.ForgetSelection(r.Context(), sess); err != nil {
		h.logger.Warn("forgetting selection failed", "session", sess.ID, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
