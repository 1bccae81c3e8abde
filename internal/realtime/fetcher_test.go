package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func translated(text string) *gtfs.TranslatedString {
	return &gtfs.TranslatedString{
		Translation: []*gtfs.TranslatedString_Translation{
			{Text: proto.String(""), Language: proto.String("es")},
			{Text: proto.String(text), Language: proto.String("en")},
		},
	}
}

func testFeed(t *testing.T) []byte {
	t.Helper()
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(time.Now().Unix())),
		},
		Entity: []*gtfs.FeedEntity{
			{
				Id: proto.String("elevator-wcrk"),
				Alert: &gtfs.Alert{
					HeaderText:      translated("Elevator out of service at Walnut Creek"),
					DescriptionText: translated("Use the ramp on Ygnacio Valley Road."),
					Effect:          gtfs.Alert_REDUCED_SERVICE.Enum(),
					Cause:           gtfs.Alert_MAINTENANCE.Enum(),
					InformedEntity: []*gtfs.EntitySelector{
						{StopId: proto.String("WCRK")},
						{StopId: proto.String("WCRK")},
						{RouteId: proto.String("YELLOW-N")},
					},
				},
			},
			{
				Id: proto.String("systemwide"),
				Alert: &gtfs.Alert{
					HeaderText: translated("Major delays systemwide"),
					Effect:     gtfs.Alert_SIGNIFICANT_DELAYS.Enum(),
					InformedEntity: []*gtfs.EntitySelector{
						{AgencyId: proto.String("BART")},
					},
				},
			},
			{
				Id: proto.String("not-an-alert"),
				TripUpdate: &gtfs.TripUpdate{
					Trip: &gtfs.TripDescriptor{TripId: proto.String("t1")},
				},
			},
		},
	}
	b, err := proto.Marshal(feed)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return b
}

func TestFetch(t *testing.T) {
	body := testFeed(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.Write(body)
	}))
	defer srv.Close()

	store := NewStore()
	f := NewFetcher(srv.URL, time.Minute, store, discard)
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if got := len(store.AllAlerts()); got != 2 {
		t.Fatalf("got %d alerts, want 2 (trip updates skipped)", got)
	}

	wcrk := store.AlertsForStation("WCRK")
	if len(wcrk) != 1 {
		t.Fatalf("AlertsForStation(WCRK) = %d alerts, want 1", len(wcrk))
	}
	a := wcrk[0]
	if a.HeaderText != "Elevator out of service at Walnut Creek" {
		t.Errorf("HeaderText = %q (empty translations should be skipped)", a.HeaderText)
	}
	if a.Effect != "REDUCED_SERVICE" || a.Cause != "MAINTENANCE" {
		t.Errorf("effect/cause = %s/%s", a.Effect, a.Cause)
	}
	if len(a.StopIDs) != 1 {
		t.Errorf("StopIDs = %v, want deduplicated [WCRK]", a.StopIDs)
	}
	if len(a.RouteIDs) != 1 || a.RouteIDs[0] != "YELLOW-N" {
		t.Errorf("RouteIDs = %v", a.RouteIDs)
	}

	sys := store.SystemAlerts()
	if len(sys) != 1 || sys[0].ID != "systemwide" {
		t.Errorf("SystemAlerts() = %+v, want the systemwide alert", sys)
	}
	if store.UpdatedAt().IsZero() {
		t.Error("UpdatedAt should be set after a fetch")
	}
}

func TestFetch_FailureKeepsPreviousAlerts(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not protobuf \xff\xff\xff"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			store := NewStore()
			store.SetAlerts([]Alert{{ID: "kept", StopIDs: []string{"ORIN"}}})

			f := NewFetcher(srv.URL, time.Minute, store, discard)
			if err := f.Fetch(context.Background()); err == nil {
				t.Fatal("Fetch() error = nil, want failure")
			}
			if got := store.AlertsForStation("ORIN"); len(got) != 1 {
				t.Errorf("previous alerts lost: %+v", store.AllAlerts())
			}
		})
	}
}

func TestStore_AlertsForStation(t *testing.T) {
	s := NewStore()
	s.SetAlerts([]Alert{
		{ID: "1", StopIDs: []string{"WCRK", "PHIL"}},
		{ID: "2", StopIDs: []string{"PHIL"}},
		{ID: "3"},
	})

	tests := []struct {
		abbr string
		want int
	}{
		{"WCRK", 1},
		{"PHIL", 2},
		{"ORIN", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			if got := len(s.AlertsForStation(tt.abbr)); got != tt.want {
				t.Errorf("AlertsForStation(%q) = %d alerts, want %d", tt.abbr, got, tt.want)
			}
		})
	}
}

func TestStore_AllAlertsIsACopy(t *testing.T) {
	s := NewStore()
	s.SetAlerts([]Alert{{ID: "1"}})
	all := s.AllAlerts()
	all[0].ID = "mutated"
	if s.AllAlerts()[0].ID != "1" {
		t.Error("AllAlerts should return a copy")
	}
}

func TestFormatAlertEffect(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"NO_SERVICE", "No Service"},
		{"SIGNIFICANT_DELAYS", "Significant Delays"},
		{"STOP_MOVED", "Station Moved"},
		{"UNKNOWN_EFFECT", "Alert"},
		{"", "Alert"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatAlertEffect(tt.input); got != tt.want {
				t.Errorf("FormatAlertEffect(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
