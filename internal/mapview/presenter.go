// Package mapview decides what the station map shows: which pins are visible,
// where the camera points and how the trip selection is marked.
package mapview

import (
	"fmt"
	"log/slog"

	"bartnow/internal/filter"
	"bartnow/internal/selection"
	"bartnow/internal/station"
)

// Mode is the camera state of the map.
type Mode int

const (
	ModeOverview Mode = iota
	ModeSingleResultZoom
)

func (m Mode) String() string {
	switch m {
	case ModeOverview:
		return "overview"
	case ModeSingleResultZoom:
		return "single-result-zoom"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "overview":
		*m = ModeOverview
	case "single-result-zoom":
		*m = ModeSingleResultZoom
	default:
		return fmt.Errorf("unknown map mode %q", b)
	}
	return nil
}

// FilterState is the search side of the screen.
type FilterState struct {
	Query                string            `json:"query"`
	Visible              []station.Station `json:"visible"`
	ZoomedToSingleResult bool              `json:"zoomedToSingleResult"`
}

// View is a full picture of the screen, used to draw it from scratch.
type View struct {
	Query       string          `json:"query"`
	Mode        Mode            `json:"mode"`
	Region      Region          `json:"region"`
	Annotations []Annotation    `json:"annotations"`
	Selection   selection.State `json:"selection"`
	Diagnostic  string          `json:"diagnostic,omitempty"`
}

// Presenter owns the filter and selection state of one map screen and
// pushes the resulting changes to a Surface. It is not safe for concurrent
// use; callers run one event at a time.
type Presenter struct {
	stations []station.Station
	surface  Surface
	logger   *slog.Logger

	filter     FilterState
	sel        selection.Controller
	mode       Mode
	zoomedOn   string // station name framed in ModeSingleResultZoom
	region     Region
	diagnostic string
}

// New creates a Presenter over the loaded stations. Call Start to draw it.
func New(stations []station.Station, surface Surface, logger *slog.Logger) *Presenter {
	return &Presenter{
		stations: stations,
		surface:  surface,
		logger:   logger,
		filter:   FilterState{Visible: stations},
		region:   InitialRegion(),
	}
}

// Start puts every station on the map and frames the overview.
func (p *Presenter) Start() {
	if len(p.filter.Visible) > 0 {
		p.surface.AddAnnotations(p.annotations(p.filter.Visible)...)
	}
	p.setRegion(InitialRegion())
}

// SetDiagnostic records why the screen has no stations.
func (p *Presenter) SetDiagnostic(msg string) {
	p.diagnostic = msg
}

// SearchTextChanged re-filters the stations. Nothing reaches the surface
// when the visible set is unchanged.
func (p *Presenter) SearchTextChanged(query string) {
	p.filter.Query = query

	prev := p.filter.Visible
	cur := filter.Apply(p.stations, query)
	if !filter.Changed(prev, cur) {
		return
	}

	p.filter.Visible = cur
	p.syncAnnotations(prev, cur)
	p.OnFilterResultChanged(prev, cur)
}

// SearchCancelled clears the query and shows every station again.
func (p *Presenter) SearchCancelled() {
	p.ResetFilter()
}

// ResetFilter puts the filter back to an empty query over every station.
func (p *Presenter) ResetFilter() {
	p.SearchTextChanged("")
}

// OnFilterResultChanged moves the camera between the overview and a single
// search result.
func (p *Presenter) OnFilterResultChanged(prev, cur []station.Station) {
	if len(cur) == 1 {
		s := cur[0]
		if p.mode == ModeSingleResultZoom && p.zoomedOn == s.Name {
			return
		}
		if p.mode == ModeOverview {
			p.logger.Debug("map zoomed to single result", "station", s.Name, "previous", len(prev))
		}
		p.mode = ModeSingleResultZoom
		p.zoomedOn = s.Name
		p.filter.ZoomedToSingleResult = true

		p.sel.Tap(s)
		p.surface.SelectAnnotation(p.annotation(s))
		p.setRegion(ZoomedRegion(s))
		return
	}

	if p.mode == ModeOverview {
		return
	}
	p.logger.Debug("map back to overview", "results", len(cur))
	p.mode = ModeOverview
	p.zoomedOn = ""
	p.filter.ZoomedToSingleResult = false
	p.setRegion(InitialRegion())
}

// StationTapped records a pin tap. It reports false for unknown names.
func (p *Presenter) StationTapped(name string) (station.Station, bool) {
	s, ok := station.Find(p.stations, name)
	if !ok {
		return station.Station{}, false
	}
	p.sel.Tap(s)
	p.surface.SelectAnnotation(p.annotation(s))
	return s, true
}

// RoleChosen assigns the tapped station to role and re-marks affected pins.
func (p *Presenter) RoleChosen(role selection.Role) bool {
	before := p.sel.State()
	if !p.sel.Choose(role) {
		return false
	}
	p.refreshRoles(before, p.sel.State())
	return true
}

// RestoreSelection reinstates a persisted trip by station name. Names that
// no longer exist are dropped.
func (p *Presenter) RestoreSelection(departure, destination string) {
	before := p.sel.State()
	p.sel.Restore(p.lookup(departure), p.lookup(destination))
	p.refreshRoles(before, p.sel.State())
}

// Reset returns the screen to its freshly started state.
func (p *Presenter) Reset() {
	before := p.sel.State()
	p.sel.Reset()
	p.refreshRoles(before, p.sel.State())
	p.SearchCancelled()
}

// RoleOf returns the trip roles held by the named station.
func (p *Presenter) RoleOf(name string) selection.Role {
	return p.sel.RoleOf(name)
}

// Selection returns the current selection.
func (p *Presenter) Selection() selection.State {
	return p.sel.State()
}

// Filter returns the current filter state.
func (p *Presenter) Filter() FilterState {
	fs := p.filter
	fs.Visible = append([]station.Station(nil), p.filter.Visible...)
	return fs
}

// Mode returns the camera state.
func (p *Presenter) Mode() Mode {
	return p.mode
}

// Region returns the last region sent to the surface.
func (p *Presenter) Region() Region {
	return p.region
}

// Stations returns every loaded station.
func (p *Presenter) Stations() []station.Station {
	return p.stations
}

// Snapshot describes the whole screen.
func (p *Presenter) Snapshot() View {
	return View{
		Query:       p.filter.Query,
		Mode:        p.mode,
		Region:      p.region,
		Annotations: p.annotations(p.filter.Visible),
		Selection:   p.sel.State(),
		Diagnostic:  p.diagnostic,
	}
}

func (p *Presenter) setRegion(r Region) {
	p.region = r
	p.surface.SetRegion(r)
}

// syncAnnotations removes pins that left the visible set and adds new ones.
func (p *Presenter) syncAnnotations(prev, cur []station.Station) {
	prevSet := make(map[string]bool, len(prev))
	for _, s := range prev {
		prevSet[s.Name] = true
	}
	curSet := make(map[string]bool, len(cur))
	for _, s := range cur {
		curSet[s.Name] = true
	}

	var removed, added []Annotation
	for _, s := range prev {
		if !curSet[s.Name] {
			removed = append(removed, p.annotation(s))
		}
	}
	for _, s := range cur {
		if !prevSet[s.Name] {
			added = append(added, p.annotation(s))
		}
	}
	if len(removed) > 0 {
		p.surface.RemoveAnnotations(removed...)
	}
	if len(added) > 0 {
		p.surface.AddAnnotations(added...)
	}
}

// refreshRoles updates visible pins whose role changed between two states.
func (p *Presenter) refreshRoles(before, after selection.State) {
	touched := make(map[string]bool)
	for _, s := range []*station.Station{before.Departure, before.Destination, after.Departure, after.Destination} {
		if s != nil {
			touched[s.Name] = true
		}
	}
	for _, s := range p.filter.Visible {
		if touched[s.Name] {
			p.surface.UpdateAnnotation(p.annotation(s))
			delete(touched, s.Name)
		}
	}
}

func (p *Presenter) lookup(name string) *station.Station {
	if name == "" {
		return nil
	}
	s, ok := station.Find(p.stations, name)
	if !ok {
		p.logger.Warn("dropping selection for unknown station", "station", name)
		return nil
	}
	return &s
}

func (p *Presenter) annotation(s station.Station) Annotation {
	return Annotation{
		Title:      s.Name,
		Subtitle:   fmt.Sprintf("%s, %s", s.Address, s.City),
		Abbr:       s.Abbr,
		Coordinate: coordinate(s),
		Role:       p.sel.RoleOf(s.Name),
	}
}

func (p *Presenter) annotations(stations []station.Station) []Annotation {
	out := make([]Annotation, len(stations))
	for i, s := range stations {
		out[i] = p.annotation(s)
	}
	return out
}
