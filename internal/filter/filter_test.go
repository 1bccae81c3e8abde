package filter

import (
	"testing"

	"bartnow/internal/station"
)

func names(stations []station.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var bayArea = []station.Station{
	{Name: "Walnut Creek"},
	{Name: "Pleasant Hill/Contra Costa Centre"},
	{Name: "Lafayette"},
	{Name: "North Concord/Martinez"},
	{Name: "Concord"},
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps everything", "", names(bayArea)},
		{"whitespace query keeps everything", "  \t", names(bayArea)},
		{"upper case matches", "WALNUT", []string{"Walnut Creek"}},
		{"lower case matches", "creek", []string{"Walnut Creek"}},
		{"mixed case matches", "cOnCoRd", []string{"North Concord/Martinez", "Concord"}},
		{"substring in the middle", "contra", []string{"Pleasant Hill/Contra Costa Centre"}},
		{"order is load order", "a", []string{"Walnut Creek", "Pleasant Hill/Contra Costa Centre", "Lafayette", "North Concord/Martinez"}},
		{"no match", "xyz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(bayArea, tt.query))
			if !equal(got, tt.want) {
				t.Errorf("Apply(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestApply_UnicodeFolding(t *testing.T) {
	stations := []station.Station{{Name: "Straße"}, {Name: "Ÿpsilon"}}

	if got := names(Apply(stations, "STRASSE")); !equal(got, []string{"Straße"}) {
		t.Errorf("Apply(STRASSE) = %v, want [Straße]", got)
	}
	if got := names(Apply(stations, "ÿ")); !equal(got, []string{"Ÿpsilon"}) {
		t.Errorf("Apply(ÿ) = %v, want [Ÿpsilon]", got)
	}
}

func TestApply_EmptyInput(t *testing.T) {
	if got := Apply(nil, "creek"); len(got) != 0 {
		t.Errorf("Apply(nil, creek) = %v, want empty", got)
	}
	if got := Apply(nil, ""); got != nil {
		t.Errorf("Apply(nil, \"\") = %v, want nil", got)
	}
}

func TestChanged(t *testing.T) {
	a := station.Station{Name: "A"}
	b := station.Station{Name: "B"}

	tests := []struct {
		name      string
		prev, cur []station.Station
		want      bool
	}{
		{"both empty", nil, []station.Station{}, false},
		{"same sequence", []station.Station{a, b}, []station.Station{a, b}, false},
		{"different length", []station.Station{a, b}, []station.Station{a}, true},
		{"same length different names", []station.Station{a}, []station.Station{b}, true},
		{"reordered", []station.Station{a, b}, []station.Station{b, a}, true},
		{"from empty", nil, []station.Station{a}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Changed(tt.prev, tt.cur); got != tt.want {
				t.Errorf("Changed(%v, %v) = %v, want %v", names(tt.prev), names(tt.cur), got, tt.want)
			}
		})
	}
}
