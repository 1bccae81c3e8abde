// Package filter narrows a station list by a search query.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"bartnow/internal/station"
)

// Apply returns the stations whose name contains query, ignoring case.
// A blank query returns stations as given. Order is always preserved.
func Apply(stations []station.Station, query string) []station.Station {
	if strings.TrimSpace(query) == "" {
		return stations
	}

	// Casers are stateful, so each call gets its own.
	fold := cases.Fold()
	q := fold.String(query)

	out := make([]station.Station, 0, len(stations))
	for _, s := range stations {
		if strings.Contains(fold.String(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// Changed reports whether cur differs from prev as a sequence of station names.
func Changed(prev, cur []station.Station) bool {
	if len(prev) != len(cur) {
		return true
	}
	for i := range prev {
		if prev[i].Name != cur[i].Name {
			return true
		}
	}
	return false
}
