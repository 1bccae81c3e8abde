package station

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"bartnow/data"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const twoStations = `{
  "root": {
    "stations": {
      "station": [
        {"name": "Walnut Creek", "abbr": "WCRK", "address": "200 Ygnacio Valley Road", "city": "Walnut Creek", "zipcode": "94596", "gtfs_latitude": "37.905522", "gtfs_longitude": "-122.067527"},
        {"name": "Pleasant Hill", "address": "1365 Treat Blvd.", "city": "Walnut Creek", "zipcode": "94597", "gtfs_latitude": "37.928468", "gtfs_longitude": "-122.056012"}
      ]
    }
  }
}`

func load(t *testing.T, content string) ([]Station, error) {
	t.Helper()
	fsys := fstest.MapFS{"stations.json": {Data: []byte(content)}}
	return NewRepository(fsys, "stations.json", discard).Load()
}

func TestLoad_WellFormed(t *testing.T) {
	stations, err := load(t, twoStations)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}

	want := Station{
		Name:      "Walnut Creek",
		Abbr:      "WCRK",
		Address:   "200 Ygnacio Valley Road",
		City:      "Walnut Creek",
		ZipCode:   "94596",
		Latitude:  37.905522,
		Longitude: -122.067527,
	}
	if stations[0] != want {
		t.Errorf("stations[0] = %+v, want %+v", stations[0], want)
	}
	if stations[1].Name != "Pleasant Hill" || stations[1].Abbr != "" {
		t.Errorf("stations[1] = %+v", stations[1])
	}
}

func TestLoad_EmptyList(t *testing.T) {
	stations, err := load(t, `{"root":{"stations":{"station":[]}}}`)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stations) != 0 {
		t.Errorf("got %d stations, want 0", len(stations))
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := NewRepository(fstest.MapFS{}, "stations.json", discard).Load()
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Load() error = %v, want ErrAssetNotFound", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `<root/>`},
		{"truncated", `{"root": {"stations": `},
		{"no root", `{"stations": {"station": []}}`},
		{"no stations", `{"root": {"message": ""}}`},
		{"no station array", `{"root": {"stations": {}}}`},
		{"null station array", `{"root": {"stations": {"station": null}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.content)
			if !errors.Is(err, ErrAssetCorrupt) {
				t.Errorf("Load() error = %v, want ErrAssetCorrupt", err)
			}
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	tests := []struct {
		name      string
		entry     string
		wantField string
	}{
		{"missing name", `{"address": "a", "city": "c", "zipcode": "z", "gtfs_latitude": "1", "gtfs_longitude": "2"}`, "name"},
		{"missing address", `{"name": "X", "city": "c", "zipcode": "z", "gtfs_latitude": "1", "gtfs_longitude": "2"}`, "address"},
		{"missing zipcode", `{"name": "X", "address": "a", "city": "c", "gtfs_latitude": "1", "gtfs_longitude": "2"}`, "zipcode"},
		{"missing latitude", `{"name": "X", "address": "a", "city": "c", "zipcode": "z", "gtfs_longitude": "2"}`, "gtfs_latitude"},
		{"non-numeric latitude", `{"name": "X", "address": "a", "city": "c", "zipcode": "z", "gtfs_latitude": "north", "gtfs_longitude": "2"}`, "gtfs_latitude"},
		{"empty longitude", `{"name": "X", "address": "a", "city": "c", "zipcode": "z", "gtfs_latitude": "1", "gtfs_longitude": ""}`, "gtfs_longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := `{"name": "Good", "address": "a", "city": "c", "zipcode": "z", "gtfs_latitude": "1", "gtfs_longitude": "2"}`
			content := `{"root":{"stations":{"station":[` + good + `,` + tt.entry + `]}}}`

			stations, err := load(t, content)
			if stations != nil {
				t.Errorf("got %d stations, want none on failure", len(stations))
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("Load() error = %v, want ErrParse", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if pe.Index != 1 {
				t.Errorf("Index = %d, want 1", pe.Index)
			}
			if pe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", pe.Field, tt.wantField)
			}
		})
	}
}

func TestLoad_BundledAsset(t *testing.T) {
	stations, err := NewRepository(data.FS, data.StationsFile, discard).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stations) == 0 {
		t.Fatal("bundled asset has no stations")
	}

	seen := make(map[string]bool)
	for _, s := range stations {
		if seen[s.Name] {
			t.Errorf("duplicate station name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Abbr == "" {
			t.Errorf("station %q has no abbreviation", s.Name)
		}
		// Bay Area bounding box
		if s.Latitude < 37 || s.Latitude > 38.5 || s.Longitude < -123 || s.Longitude > -121.5 {
			t.Errorf("station %q at (%f, %f) is outside the Bay Area", s.Name, s.Latitude, s.Longitude)
		}
	}

	if _, ok := Find(stations, "Walnut Creek"); !ok {
		t.Error("bundled asset is missing Walnut Creek")
	}
}

func TestFind(t *testing.T) {
	stations := []Station{{Name: "A", City: "first"}, {Name: "B"}, {Name: "A", City: "second"}}

	got, ok := Find(stations, "A")
	if !ok || got.City != "first" {
		t.Errorf("Find(A) = %+v, %v; want first A", got, ok)
	}
	if _, ok := Find(stations, "C"); ok {
		t.Error("Find(C) should report false")
	}
}
