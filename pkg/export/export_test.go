package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlouielu/gpxgo/gpx"
	geojson "github.com/paulmach/go.geojson"

	"github.com/platypusllc/analytics/pkg/logs"
)

var start = time.Date(2013, 8, 7, 6, 36, 22, 0, time.UTC)

func testDataset() logs.Dataset {
	pose := &logs.Series{Channel: logs.PoseChannel, Fields: logs.PoseFields}
	for i := 0; i < 3; i++ {
		pose.Records = append(pose.Records, logs.Record{
			Time:   start.Add(time.Duration(i) * 500 * time.Millisecond),
			Values: []float64{591672 + float64(i), 4482691, 271.5, 17, 1, 40.49 + float64(i)*1e-5, -79.918},
		})
	}
	return logs.Dataset{
		logs.PoseChannel: pose,
		"es2": {Channel: "es2", Fields: []string{"ec", "temperature"}, Records: []logs.Record{
			{Time: start, Values: []float64{153.5, 20.9}},
			{Time: start.Add(1250 * time.Millisecond), Values: []float64{167.5, 20.5}},
		}},
		"sonar": {Channel: "sonar", Records: []logs.Record{
			{Time: start, Values: []float64{1, 2}},
		}},
	}
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		channel string
		want    [][]string
	}{
		{"es2", [][]string{
			{"time", "ec", "temperature"},
			{"2013-08-07 06:36:22.000", "153.5", "20.9"},
			{"2013-08-07 06:36:23.250", "167.5", "20.5"},
		}},
		{"sonar", [][]string{
			{"time", "field_0", "field_1"},
			{"2013-08-07 06:36:22.000", "1", "2"},
		}},
	}
	ds := testDataset()
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteCSV(&buf, ds[tt.channel]); err != nil {
				t.Fatal(err)
			}
			rows, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatal(err)
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i := range tt.want {
				for j := range tt.want[i] {
					if rows[i][j] != tt.want[i][j] {
						t.Errorf("row %d = %q, want %q", i, rows[i], tt.want[i])
						break
					}
				}
			}
		})
	}
}

func TestWriteCSVDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteCSVDir(dir, testDataset())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("wrote %v", paths)
	}
	f, err := os.Open(filepath.Join(dir, "pose.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || len(rows[0]) != len(logs.PoseFields)+1 {
		t.Errorf("pose.csv has %d rows of %d columns", len(rows), len(rows[0]))
	}
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, testDataset()); err != nil {
		t.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 4 {
		t.Fatalf("got %d features, want 4", len(fc.Features))
	}
	track := fc.Features[0]
	if !track.Geometry.IsLineString() || len(track.Geometry.LineString) != 3 {
		t.Fatalf("first feature is %s", track.Geometry.Type)
	}
	if lon, lat := track.Geometry.LineString[2][0], track.Geometry.LineString[2][1]; lon != -79.918 || math.Abs(lat-40.49002) > 1e-9 {
		t.Errorf("last track point = %f, %f", lat, lon)
	}
	if end, _ := track.PropertyString("end"); end != "2013-08-07T06:36:23Z" {
		t.Errorf("track end = %q", end)
	}
	for _, f := range fc.Features[1:] {
		if !f.Geometry.IsPoint() {
			t.Errorf("feature is %s, want Point", f.Geometry.Type)
		}
	}
}

func TestWriteGPX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGPX(&buf, testDataset(), "airboat"); err != nil {
		t.Fatal(err)
	}
	g, err := gpx.ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Tracks) != 1 || len(g.Tracks[0].Segments) != 1 {
		t.Fatalf("got %d tracks", len(g.Tracks))
	}
	points := g.Tracks[0].Segments[0].Points
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	// GPX times have whole seconds.
	if p := points[2]; !p.Timestamp.Equal(start.Add(time.Second)) || p.Elevation.Value() != 271.5 {
		t.Errorf("last point at %s, elevation %f", p.Timestamp, p.Elevation.Value())
	}
}

func TestNoPoses(t *testing.T) {
	ds := testDataset()
	delete(ds, logs.PoseChannel)
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, ds); err == nil {
		t.Error("GeoJSON without poses succeeded")
	}
	if err := WriteGPX(&buf, ds, "airboat"); err == nil {
		t.Error("GPX without poses succeeded")
	}
}
