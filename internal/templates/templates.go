// Package templates renders the station map pages as templ components.
//
//go:generate templ generate
package templates

import (
	"net/url"

	"github.com/a-h/templ"

	"bartnow/internal/mapview"
	"bartnow/internal/selection"
	"bartnow/internal/station"
)

// Page holds what every page layout needs.
type Page struct {
	Title        string
	CurrentPath  string
	AssetVersion string
}

// AlertDisplay is a service alert ready for display.
type AlertDisplay struct {
	HeaderText string
	DescText   string
	Effect     string
}

// MapState is the screen as the map script draws it from scratch.
type MapState struct {
	mapview.View
	Generation string `json:"generation"`
}

// MapData feeds MapPage.
type MapData struct {
	Page
	View         mapview.View
	Generation   string
	SystemAlerts []AlertDisplay
}

func (d MapData) state() MapState {
	return MapState{View: d.View, Generation: d.Generation}
}

// StationData feeds StationPage.
type StationData struct {
	Page
	Station      station.Station
	Role         selection.Role
	Alerts       []AlertDisplay
	TripDistance string // straight-line departure to destination, when both are set
}

// StationURL is the detail page path for a station.
func StationURL(name string) string {
	return "/stations/" + url.PathEscape(name)
}

func stationHref(name string) templ.SafeURL {
	return templ.SafeURL(StationURL(name))
}

func roleAction(name string) templ.SafeURL {
	return templ.SafeURL(StationURL(name) + "/role")
}

func assetURL(path, version string) templ.SafeURL {
	return templ.SafeURL(path + "?v=" + url.QueryEscape(version))
}
