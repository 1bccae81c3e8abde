// Package selection tracks the tapped station and the chosen trip endpoints.
package selection

import (
	"fmt"
	"strings"

	"bartnow/internal/station"
)

// Role marks a station as a trip endpoint. Roles combine as bit flags
// because nothing stops one station from being both ends of a trip.
type Role uint8

const (
	RoleNone        Role = 0
	RoleDeparture   Role = 1 << 0
	RoleDestination Role = 1 << 1
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleDeparture:
		return "departure"
	case RoleDestination:
		return "destination"
	case RoleDeparture | RoleDestination:
		return "departure+destination"
	}
	return "unknown"
}

// MarshalText encodes a role by name for JSON responses.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts every name String produces.
func (r *Role) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*r = RoleNone
	case "departure+destination":
		*r = RoleDeparture | RoleDestination
	default:
		role, ok := ParseRole(string(b))
		if !ok {
			return fmt.Errorf("unknown role %q", b)
		}
		*r = role
	}
	return nil
}

// ParseRole parses a single role name.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "departure":
		return RoleDeparture, true
	case "destination":
		return RoleDestination, true
	}
	return RoleNone, false
}

// State is a snapshot of the selection.
type State struct {
	Tapped      *station.Station `json:"tapped"`
	Departure   *station.Station `json:"departure"`
	Destination *station.Station `json:"destination"`
}

// Controller holds the selection for one screen. It is not safe for
// concurrent use.
type Controller struct {
	tapped      *station.Station
	departure   *station.Station
	destination *station.Station
}

// Tap records s as the currently tapped station.
func (c *Controller) Tap(s station.Station) {
	c.tapped = &s
}

// Choose assigns the tapped station to role. It reports false and changes
// nothing when no station has been tapped or role is not a single role.
func (c *Controller) Choose(role Role) bool {
	if c.tapped == nil {
		return false
	}
	s := *c.tapped
	switch role {
	case RoleDeparture:
		c.departure = &s
	case RoleDestination:
		c.destination = &s
	default:
		return false
	}
	return true
}

// RoleOf returns the roles held by the station with the given name.
func (c *Controller) RoleOf(name string) Role {
	r := RoleNone
	if c.departure != nil && c.departure.Name == name {
		r |= RoleDeparture
	}
	if c.destination != nil && c.destination.Name == name {
		r |= RoleDestination
	}
	return r
}

// Restore reinstates a previously chosen pair. The tapped station is untouched.
func (c *Controller) Restore(departure, destination *station.Station) {
	c.departure = clone(departure)
	c.destination = clone(destination)
}

// State returns a copy of the current selection.
func (c *Controller) State() State {
	return State{
		Tapped:      clone(c.tapped),
		Departure:   clone(c.departure),
		Destination: clone(c.destination),
	}
}

// Reset clears the tapped station and both roles.
func (c *Controller) Reset() {
	*c = Controller{}
}

func clone(s *station.Station) *station.Station {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
