package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skao-tools/arraymodel/pkg/errors"
	"github.com/skao-tools/arraymodel/pkg/httputil"
	"github.com/skao-tools/arraymodel/pkg/telescope"
)

const subarrayJSON = `{
	"center": {"lon": 116.69345390, "lat": -26.86371635},
	"stations": [
		{"label": "S8-1", "east": 10.0, "north": -20.0, "up": 1.5},
		{"label": "S9-2", "east": -45.0, "north": 12.0, "up": 0.2}
	]
}`

func TestClientArray(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(subarrayJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	arr, err := c.Array(context.Background(), telescope.AA0_5)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/subarray/AA0.5" {
		t.Errorf("request path = %q, want /subarray/AA0.5", gotPath)
	}
	if len(arr.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(arr.Stations))
	}
	if arr.Stations[0].Label != "S8-1" || arr.Stations[0].East != 10.0 {
		t.Errorf("station 0 = %+v", arr.Stations[0])
	}
	if arr.Center.Lat != -26.86371635 {
		t.Errorf("center = %+v", arr.Center)
	}
}

func TestClientQueriesCatalogNameForAAstar(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(subarrayJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.Array(context.Background(), telescope.AAStar); err != nil {
		t.Fatal(err)
	}
	// AAstar is known to the catalog as "AA*", path-escaped.
	if gotPath != "/subarray/AA%2A" && gotPath != "/subarray/AA*" {
		t.Errorf("request path = %q, want escaped AA*", gotPath)
	}
}

func TestClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Array(context.Background(), telescope.AA4)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error code = %q, want NOT_FOUND", errors.GetCode(err))
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(subarrayJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	// Retry backoff starts at one second; tolerable for a single retry.
	arr, err := c.Array(context.Background(), telescope.AA1)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("server called %d times, want 2 (one retry)", calls)
	}
	if len(arr.Stations) != 2 {
		t.Errorf("got %d stations, want 2", len(arr.Stations))
	}
}

func TestClientUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(subarrayJSON))
	}))
	defer srv.Close()

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	c := NewClient(srv.URL, cache)
	if _, err := c.Array(context.Background(), telescope.AA2); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Array(context.Background(), telescope.AA2); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1 (second lookup cached)", calls)
	}

	// Refresh bypasses the cache.
	refreshing := NewClient(srv.URL, cache, WithRefresh(true))
	if _, err := refreshing.Array(context.Background(), telescope.AA2); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("server called %d times, want 2 after refresh", calls)
	}
}

func TestClientRejectsBadLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"center": {"lon": 0, "lat": 0}, "stations": [{"label": "../evil", "east": 0, "north": 0, "up": 0}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Array(context.Background(), telescope.AA1)
	if !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("error code = %q, want INVALID_DATA", errors.GetCode(err))
	}
}

func TestFileProvider(t *testing.T) {
	path := writeCoords(t, `label, east, north, up, rotation, subarray
S8-1, 10.0, -20.0, 1.5, 251.3, AA0.5
S9-2, -45.0, 12.0, 0.2, 251.3, AA0.5
E1-1, 300.0, 75.5, -0.8, 101.3, AA1
N4-3, -120.0, -310.0, 2.1, 340.0, AA2
`)
	center := telescope.Geodetic{Lon: 116.7, Lat: -26.9}
	p := NewFileProvider(path, center)

	// AA0.5 selects only its own stations.
	arr, err := p.Array(context.Background(), telescope.AA0_5)
	if err != nil {
		t.Fatal(err)
	}
	if len(arr.Stations) != 2 {
		t.Errorf("AA0.5 has %d stations, want 2", len(arr.Stations))
	}
	if arr.Center != center {
		t.Errorf("center = %+v, want %+v", arr.Center, center)
	}

	// Stages are nested: AA2 includes AA0.5 and AA1 stations.
	arr, err = p.Array(context.Background(), telescope.AA2)
	if err != nil {
		t.Fatal(err)
	}
	if len(arr.Stations) != 4 {
		t.Errorf("AA2 has %d stations, want 4", len(arr.Stations))
	}
}

func TestFileProviderRequiresStageColumn(t *testing.T) {
	path := writeCoords(t, `label, east, north, up, rotation
S8-1, 10.0, -20.0, 1.5, 251.3
`)
	p := NewFileProvider(path, telescope.Geodetic{})
	_, err := p.Array(context.Background(), telescope.AA0_5)
	if !errors.Is(err, errors.ErrCodeInvalidData) {
		t.Errorf("error code = %q, want INVALID_DATA", errors.GetCode(err))
	}
}
