package export

import (
	"io"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"github.com/platypusllc/analytics/pkg/logs"
)

// Track returns the vehicle positions as a feature collection holding one
// LineString feature for the whole track, followed by a Point feature per
// position with its time and altitude.
func Track(ds logs.Dataset) (*geojson.FeatureCollection, error) {
	poses := ds.Poses()
	if len(poses) == 0 {
		return nil, errors.New("dataset has no pose records")
	}
	fc := geojson.NewFeatureCollection()

	line := make([][]float64, len(poses))
	for i, p := range poses {
		line[i] = []float64{p.Longitude, p.Latitude}
	}
	track := geojson.NewLineStringFeature(line)
	track.SetProperty("start", poses[0].Time.UTC().Format(time.RFC3339Nano))
	track.SetProperty("end", poses[len(poses)-1].Time.UTC().Format(time.RFC3339Nano))
	track.SetProperty("points", len(poses))
	fc.AddFeature(track)

	for _, p := range poses {
		point := geojson.NewPointFeature([]float64{p.Longitude, p.Latitude})
		point.SetProperty("time", p.Time.UTC().Format(time.RFC3339Nano))
		point.SetProperty("altitude", p.Altitude)
		fc.AddFeature(point)
	}
	return fc, nil
}

// WriteGeoJSON writes Track(ds) to w.
func WriteGeoJSON(w io.Writer, ds logs.Dataset) error {
	fc, err := Track(ds)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding GeoJSON")
	}
	_, err = w.Write(data)
	return err
}

// WriteGeoJSONFile writes Track(ds) to the named file.
func WriteGeoJSONFile(path string, ds logs.Dataset) error {
	return writeFile(path, func(w io.Writer) error { return WriteGeoJSON(w, ds) })
}
