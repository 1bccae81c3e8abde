package handler

import (
	"fmt"
	"net/http"

	"bartnow/internal/geo"
	"bartnow/internal/mapview"
	"bartnow/internal/selection"
	"bartnow/internal/station"
	"bartnow/internal/templates"
)

// StationDetail taps a station and serves its detail page.
func (h *Handler) StationDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var (
		st    station.Station
		found bool
		role  selection.Role
		sel   selection.State
	)
	sess.Do(func(p *mapview.Presenter) {
		st, found = p.StationTapped(name)
		role = p.RoleOf(name)
		sel = p.Selection()
	})
	if !found {
		http.NotFound(w, r)
		return
	}

	h.render(w, r, templates.StationPage(templates.StationData{
		Page:         h.page(st.Name, templates.StationURL(st.Name)),
		Station:      st,
		Role:         role,
		Alerts:       h.alertsForStation(st.Abbr),
		TripDistance: tripDistance(sel),
	}))
}

// StationRole assigns the station to the posted role and returns to its page.
func (h *Handler) StationRole(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	role, ok := selection.ParseRole(r.FormValue("role"))
	if !ok {
		http.Error(w, "Unknown role", http.StatusBadRequest)
		return
	}
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var found bool
	sess.Do(func(p *mapview.Presenter) {
		if _, found = p.StationTapped(name); found {
			p.RoleChosen(role)
		}
	})
	if !found {
		http.NotFound(w, r)
		return
	}
	h.saveSelection(r, sess)
	http.Redirect(w, r, templates.StationURL(name), http.StatusSeeOther)
}

// tripDistance is the straight-line length of the trip, or "" until both
// ends are chosen.
func tripDistance(sel selection.State) string {
	if sel.Departure == nil || sel.Destination == nil {
		return ""
	}
	meters := geo.Distance(
		geo.Coordinate{Lat: sel.Departure.Latitude, Lon: sel.Departure.Longitude},
		geo.Coordinate{Lat: sel.Destination.Latitude, Lon: sel.Destination.Longitude},
	)
	return fmt.Sprintf("%.1f mi", geo.MetersToMiles(meters))
}
