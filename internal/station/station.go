package station

// Station is a BART station as listed in the bundled asset.
// Name is the station's identity throughout filtering and selection.
type Station struct {
	Name      string  `json:"name"`
	Abbr      string  `json:"abbr,omitempty"` // BART abbreviation, matches GTFS stop ids
	Address   string  `json:"address"`
	City      string  `json:"city"`
	ZipCode   string  `json:"zipCode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Find returns the first station with the given name.
func Find(stations []Station, name string) (Station, bool) {
	for _, s := range stations {
		if s.Name == name {
			return s, true
		}
	}
	return Station{}, false
}
