package server

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bartnow/internal/config"
	"bartnow/internal/realtime"
	"bartnow/internal/session"
	"bartnow/internal/station"
	"bartnow/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), discard)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	stations := []station.Station{
		{Name: "Walnut Creek", Abbr: "WCRK", Latitude: 37.905522, Longitude: -122.067527},
		{Name: "Lafayette", Abbr: "LAFY", Latitude: 37.893176, Longitude: -122.124630},
	}
	cfg := &config.Config{SessionTTL: time.Hour, CookieSecret: string(testSecret)}
	sessions := session.NewStore(stations, "", db, 10, cfg.SessionTTL, discard)

	srv, err := New(cfg, sessions, realtime.NewStore(), discard)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, _ := cookiejar.New(nil)
	return ts, &http.Client{Jar: jar}
}

func TestServer_SessionFollowsCookie(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.PostForm(ts.URL+"/api/search", url.Values{"q": {"walnut"}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}

	resp, err = client.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var view struct {
		Query string `json:"query"`
		Mode  string `json:"mode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.Query != "walnut" || view.Mode != "single-result-zoom" {
		t.Errorf("state = %+v, want the search from the previous request", view)
	}
}

func TestServer_Routes(t *testing.T) {
	ts, client := newTestServer(t)

	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/stations/Lafayette", http.StatusOK},
		{"GET", "/stations/Nowhere", http.StatusNotFound},
		{"GET", "/manifest.json", http.StatusOK},
		{"GET", "/static/js/app.js", http.StatusOK},
		{"GET", "/api/search", http.StatusNotFound},
		{"POST", "/api/selection/departure", http.StatusOK}, // Lafayette was tapped above
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(""))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
		}
	}
}
