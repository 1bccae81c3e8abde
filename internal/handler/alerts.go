package handler

import (
	"bartnow/internal/realtime"
	"bartnow/internal/templates"
)

// alertsForStation returns GTFS-RT alerts naming the station abbreviation.
func (h *Handler) alertsForStation(abbr string) []templates.AlertDisplay {
	return toDisplay(h.rt.AlertsForStation(abbr))
}

// systemAlerts returns alerts that apply to the whole system.
func (h *Handler) systemAlerts() []templates.AlertDisplay {
	return toDisplay(h.rt.SystemAlerts())
}

func toDisplay(rtAlerts []realtime.Alert) []templates.AlertDisplay {
	var alerts []templates.AlertDisplay
	for _, a := range rtAlerts {
		// Deduplicate: the feed repeats an alert per affected entity
		if alertExists(alerts, a.HeaderText) {
			continue
		}
		alerts = append(alerts, templates.AlertDisplay{
			HeaderText: a.HeaderText,
			DescText:   a.DescText,
			Effect:     realtime.FormatAlertEffect(a.Effect),
		})
	}
	return alerts
}

func alertExists(alerts []templates.AlertDisplay, text string) bool {
	for _, a := range alerts {
		if a.HeaderText == text {
			return true
		}
	}
	return false
}
