package mapview

import (
	"bartnow/internal/geo"
	"bartnow/internal/selection"
)

// Annotation is everything the surface needs to draw one station pin.
type Annotation struct {
	Title      string         `json:"title"`
	Subtitle   string         `json:"subtitle"`
	Abbr       string         `json:"abbr,omitempty"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Role       selection.Role `json:"role"`
}

// Surface is the map that actually draws pins and moves the camera.
// Pins are keyed by title.
type Surface interface {
	AddAnnotations(a ...Annotation)
	RemoveAnnotations(a ...Annotation)
	UpdateAnnotation(a Annotation)
	SelectAnnotation(a Annotation)
	SetRegion(r Region)
}

// Frame is the batch of surface operations produced by one event.
// Removals apply before additions, then updates, region and selection.
type Frame struct {
	Added    []Annotation `json:"added,omitempty"`
	Removed  []Annotation `json:"removed,omitempty"`
	Updated  []Annotation `json:"updated,omitempty"`
	Region   *Region      `json:"region,omitempty"`
	Selected *Annotation  `json:"selected,omitempty"`
}

// Empty reports whether the frame carries no operations.
func (f Frame) Empty() bool {
	return len(f.Added) == 0 && len(f.Removed) == 0 && len(f.Updated) == 0 &&
		f.Region == nil && f.Selected == nil
}

// Recorder is a Surface that collects operations into a Frame.
type Recorder struct {
	frame       Frame
	regionMoves int
}

func (r *Recorder) AddAnnotations(a ...Annotation) {
	r.frame.Added = append(r.frame.Added, a...)
}

func (r *Recorder) RemoveAnnotations(a ...Annotation) {
	r.frame.Removed = append(r.frame.Removed, a...)
}

func (r *Recorder) UpdateAnnotation(a Annotation) {
	for i := range r.frame.Added {
		if r.frame.Added[i].Title == a.Title {
			r.frame.Added[i] = a
			return
		}
	}
	for i := range r.frame.Updated {
		if r.frame.Updated[i].Title == a.Title {
			r.frame.Updated[i] = a
			return
		}
	}
	r.frame.Updated = append(r.frame.Updated, a)
}

func (r *Recorder) SelectAnnotation(a Annotation) {
	r.frame.Selected = &a
}

func (r *Recorder) SetRegion(region Region) {
	r.frame.Region = &region
	r.regionMoves++
}

// RegionMoves counts SetRegion calls since the recorder was created.
func (r *Recorder) RegionMoves() int {
	return r.regionMoves
}

// Flush returns the recorded frame and starts a new one.
func (r *Recorder) Flush() Frame {
	f := r.frame
	r.frame = Frame{}
	return f
}
