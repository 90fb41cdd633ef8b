package export

import (
	"io"

	"github.com/mlouielu/gpxgo/gpx"
	"github.com/pkg/errors"

	"github.com/platypusllc/analytics/pkg/logs"
)

const creator = "platypuslog"

// GPX returns the vehicle positions as a single track with one segment.
func GPX(ds logs.Dataset, name string) (*gpx.GPX, error) {
	poses := ds.Poses()
	if len(poses) == 0 {
		return nil, errors.New("dataset has no pose records")
	}
	segment := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, len(poses))}
	for i, p := range poses {
		segment.Points[i] = gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  p.Latitude,
				Longitude: p.Longitude,
				Elevation: *gpx.NewNullableFloat64(p.Altitude),
			},
			Timestamp: p.Time.UTC(),
		}
	}
	return &gpx.GPX{
		Creator: creator,
		Name:    name,
		Tracks: []gpx.GPXTrack{{
			Name:     name,
			Segments: []gpx.GPXTrackSegment{segment},
		}},
	}, nil
}

// WriteGPX writes GPX(ds, name) to w as GPX 1.1.
func WriteGPX(w io.Writer, ds logs.Dataset, name string) error {
	g, err := GPX(ds, name)
	if err != nil {
		return err
	}
	data, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return errors.Wrap(err, "encoding GPX")
	}
	_, err = w.Write(data)
	return err
}

func WriteGPXFile(path string, ds logs.Dataset, name string) error {
	return writeFile(path, func(w io.Writer) error { return WriteGPX(w, ds, name) })
}
