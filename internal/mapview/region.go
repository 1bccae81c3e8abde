package mapview

import (
	"bartnow/internal/geo"
	"bartnow/internal/station"
)

const (
	// BaseRadiusMeters is the unit all camera spans are multiples of.
	BaseRadiusMeters = 10_000
	// OverviewSpan is the initial view, wide enough for the Contra Costa line.
	OverviewSpan = 5 * BaseRadiusMeters
	// ZoomSpan frames a single search result.
	ZoomSpan = 3 * BaseRadiusMeters
)

// DefaultCenter sits between Lafayette and Walnut Creek.
var DefaultCenter = geo.Coordinate{Lat: 37.8970287, Lon: -122.1420556}

// Region is a camera viewport: a center plus its extent in meters and degrees.
type Region struct {
	Center             geo.Coordinate `json:"center"`
	LatitudinalMeters  float64        `json:"latitudinalMeters"`
	LongitudinalMeters float64        `json:"longitudinalMeters"`
	LatitudeDelta      float64        `json:"latitudeDelta"`
	LongitudeDelta     float64        `json:"longitudeDelta"`
}

// RegionWithDistance builds a region spanning the given meters around center.
func RegionWithDistance(center geo.Coordinate, latMeters, lonMeters float64) Region {
	latDelta, lonDelta := geo.SpanDegrees(center.Lat, latMeters, lonMeters)
	return Region{
		Center:             center,
		LatitudinalMeters:  latMeters,
		LongitudinalMeters: lonMeters,
		LatitudeDelta:      latDelta,
		LongitudeDelta:     lonDelta,
	}
}

// InitialRegion is the overview shown at startup and whenever a search does
// not narrow to a single station.
func InitialRegion() Region {
	return RegionWithDistance(DefaultCenter, OverviewSpan, OverviewSpan)
}

// ZoomedRegion frames one station.
func ZoomedRegion(s station.Station) Region {
	return RegionWithDistance(coordinate(s), ZoomSpan, ZoomSpan)
}

func coordinate(s station.Station) geo.Coordinate {
	return geo.Coordinate{Lat: s.Latitude, Lon: s.Longitude}
}
