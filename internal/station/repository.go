package station

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
)

var (
	// ErrAssetNotFound means the station asset does not exist.
	ErrAssetNotFound = errors.New("station asset not found")
	// ErrAssetCorrupt means the asset is not JSON or lacks root.stations.station.
	ErrAssetCorrupt = errors.New("station asset corrupt")
	// ErrParse means a station entry has a missing or malformed field.
	ErrParse = errors.New("station entry invalid")
)

// ParseError describes the first invalid station entry in an asset.
type ParseError struct {
	Index int    // position in root.stations.station
	Name  string // station name, if the entry had one
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	who := fmt.Sprintf("station %d", e.Index)
	if e.Name != "" {
		who = fmt.Sprintf("station %d (%s)", e.Index, e.Name)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: field %s: %v", who, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: field %s missing", who, e.Field)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// Repository loads the station list from a file system.
type Repository struct {
	fsys   fs.FS
	name   string
	logger *slog.Logger
}

// NewRepository creates a Repository reading the named file from fsys.
func NewRepository(fsys fs.FS, name string, logger *slog.Logger) *Repository {
	return &Repository{fsys: fsys, name: name, logger: logger}
}

// Load reads and parses the asset. It fails as a whole on the first bad entry.
func (r *Repository) Load() ([]Station, error) {
	b, err := fs.ReadFile(r.fsys, r.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, r.name)
		}
		return nil, fmt.Errorf("read %s: %w", r.name, err)
	}

	stations, err := Parse(b)
	if err != nil {
		return nil, err
	}

	r.logger.Info("stations loaded", "asset", r.name, "count", len(stations))
	return stations, nil
}

// asset mirrors the BART stn.aspx?cmd=stns JSON response.
type asset struct {
	Root *struct {
		Stations *struct {
			Station []rawStation `json:"station"`
		} `json:"stations"`
	} `json:"root"`
}

// rawStation keeps every field as a pointer so absent keys can be told apart
// from empty values.
type rawStation struct {
	Name      *string `json:"name"`
	Abbr      *string `json:"abbr"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	ZipCode   *string `json:"zipcode"`
	Latitude  *string `json:"gtfs_latitude"`
	Longitude *string `json:"gtfs_longitude"`
}

// Parse decodes a station asset.
func Parse(b []byte) ([]Station, error) {
	var a asset
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetCorrupt, err)
	}
	if a.Root == nil || a.Root.Stations == nil || a.Root.Stations.Station == nil {
		return nil, fmt.Errorf("%w: missing root.stations.station", ErrAssetCorrupt)
	}

	stations := make([]Station, 0, len(a.Root.Stations.Station))
	for i, raw := range a.Root.Stations.Station {
		s, err := raw.station(i)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, nil
}

func (raw rawStation) station(i int) (Station, error) {
	var name string
	if raw.Name != nil {
		name = *raw.Name
	}
	if name == "" {
		return Station{}, &ParseError{Index: i, Field: "name"}
	}

	required := []struct {
		field string
		value *string
	}{
		{"address", raw.Address},
		{"city", raw.City},
		{"zipcode", raw.ZipCode},
		{"gtfs_latitude", raw.Latitude},
		{"gtfs_longitude", raw.Longitude},
	}
	for _, r := range required {
		if r.value == nil {
			return Station{}, &ParseError{Index: i, Name: name, Field: r.field}
		}
	}

	lat, err := strconv.ParseFloat(*raw.Latitude, 64)
	if err != nil {
		return Station{}, &ParseError{Index: i, Name: name, Field: "gtfs_latitude", Err: err}
	}
	lon, err := strconv.ParseFloat(*raw.Longitude, 64)
	if err != nil {
		return Station{}, &ParseError{Index: i, Name: name, Field: "gtfs_longitude", Err: err}
	}

	s := Station{
		Name:      name,
		Address:   *raw.Address,
		City:      *raw.City,
		ZipCode:   *raw.ZipCode,
		Latitude:  lat,
		Longitude: lon,
	}
	if raw.Abbr != nil {
		s.Abbr = *raw.Abbr
	}
	return s, nil
}
