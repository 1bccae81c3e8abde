// Package realtime keeps BART service alerts from the GTFS-RT feed.
package realtime

import (
	"sync"
	"time"
)

// Alert represents a parsed service alert.
type Alert struct {
	ID         string
	HeaderText string
	DescText   string
	RouteIDs   []string
	StopIDs    []string // BART station abbreviations
	Effect     string   // "NO_SERVICE", "REDUCED_SERVICE", "DETOUR", etc.
	Cause      string
}

// SystemWide reports whether the alert names no particular station.
func (a Alert) SystemWide() bool {
	return len(a.StopIDs) == 0
}

// Store holds realtime data in a thread-safe manner.
type Store struct {
	mu        sync.RWMutex
	alerts    []Alert
	updatedAt time.Time
}

// NewStore creates an empty realtime store.
func NewStore() *Store {
	return &Store{}
}

// SetAlerts replaces all alerts.
func (s *Store) SetAlerts(alerts []Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = alerts
	s.updatedAt = time.Now()
}

// UpdatedAt is when alerts were last replaced; zero before the first fetch.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// AlertsForStation returns alerts naming the station abbreviation.
func (s *Store) AlertsForStation(abbr string) []Alert {
	if abbr == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Alert
	for _, a := range s.alerts {
		for _, sid := range a.StopIDs {
			if sid == abbr {
				result = append(result, a)
				break
			}
		}
	}
	return result
}

// SystemAlerts returns alerts that are not tied to a station.
func (s *Store) SystemAlerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Alert
	for _, a := range s.alerts {
		if a.SystemWide() {
			result = append(result, a)
		}
	}
	return result
}

// AllAlerts returns all active alerts.
func (s *Store) AllAlerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
