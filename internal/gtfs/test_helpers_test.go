package gtfs

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

var campusFeed = map[string]string{
	"agency.txt": `agency_id,agency_name,agency_url,agency_timezone
SBU,Stony Brook Transit,https://transit.example.edu,America/New_York
`,
	"routes.txt": `route_id,agency_id,route_short_name,route_long_name,route_type
OUTER,SBU,O,Outer Loop,3
`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WK,1,1,1,1,1,0,0,20260101,20261231
`,
	"trips.txt": `route_id,service_id,trip_id
OUTER,WK,T1
`,
	"stops.txt": `stop_id,stop_code,stop_name,stop_lat,stop_lon,location_type,parent_station
STA,100,Stony Brook LIRR,40.9200,-73.1280,1,
STA-1,101,Stony Brook LIRR Platform 1,40.9201,-73.1281,0,STA
STA-2,102,Stony Brook LIRR Platform 2,40.9202,-73.1282,0,STA
ENT,,Station Entrance,40.9199,-73.1279,2,STA
SAC,200,SAC Loop,40.9143,-73.1244,0,
P40,300,Lot 40,40.9151,-73.1230,0,
`,
	"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence
T1,08:00:00,08:00:00,STA-1,1
T1,08:05:00,08:05:00,SAC,2
T1,08:10:00,08:10:00,P40,3
`,
}

// buildFeed zips the given GTFS files in memory.
func buildFeed(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s to zip: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// writeFeed writes a zipped feed to a temporary file and returns its path.
func writeFeed(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	if err := os.WriteFile(path, buildFeed(t, files), 0o600); err != nil {
		t.Fatalf("Failed to write feed: %v", err)
	}
	return path
}

// setupGtfsServer serves data as a GTFS zip with the given status code.
func setupGtfsServer(t *testing.T, data []byte, statusCode int) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.WriteHeader(statusCode)
		w.Write(data)
	}))
	t.Cleanup(ts.Close)
	return ts
}
