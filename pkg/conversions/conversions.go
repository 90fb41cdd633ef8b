// Package conversions turns vehicle UTM poses into geographic positions.
package conversions

import (
	"math"
	"time"

	UTM "github.com/im7mortal/UTM"
	"github.com/labstack/gommon/log"
	"github.com/montanaflynn/stats"
	geo "github.com/paulmach/go.geo"
)

// DefaultOutlierTolerance is the distance in meters from the median pose
// beyond which a pose is discarded.
const DefaultOutlierTolerance = 10000.0

// PoseRecord is a single vehicle position fix. Latitude and Longitude are
// zero until the record has been through AddLatLon.
type PoseRecord struct {
	Time      time.Time
	Easting   float64
	Northing  float64
	Altitude  float64
	Zone      int
	North     bool
	Latitude  float64
	Longitude float64
}

// RemoveOutliers drops poses whose easting or northing lies tolerance meters
// or more from the median easting or northing of the series. These fixes
// usually come from a GPS that has not locked yet and reports positions near
// the origin. Order is preserved; the input slice is not modified.
func RemoveOutliers(poses []PoseRecord, tolerance float64) []PoseRecord {
	if len(poses) == 0 {
		return []PoseRecord{}
	}
	eastings := make(stats.Float64Data, len(poses))
	northings := make(stats.Float64Data, len(poses))
	for i, pose := range poses {
		eastings[i] = pose.Easting
		northings[i] = pose.Northing
	}
	medianEasting, err := stats.Median(eastings)
	if err != nil {
		log.Warnf("failed computing median easting (%s)", err)
		return []PoseRecord{}
	}
	medianNorthing, err := stats.Median(northings)
	if err != nil {
		log.Warnf("failed computing median northing (%s)", err)
		return []PoseRecord{}
	}

	kept := make([]PoseRecord, 0, len(poses))
	for _, pose := range poses {
		if math.Abs(pose.Easting-medianEasting) < tolerance &&
			math.Abs(pose.Northing-medianNorthing) < tolerance {
			kept = append(kept, pose)
		}
	}
	if removed := len(poses) - len(kept); removed > 0 {
		log.Infof("removed %d of %d poses more than %.0f m from median (%.1f, %.1f)",
			removed, len(poses), tolerance, medianEasting, medianNorthing)
	}
	return kept
}

// AddLatLon fills Latitude and Longitude of every pose in place using the
// inverse UTM projection. Poses the projection rejects (easting or northing
// out of range, bad zone) are dropped, so the returned slice shares the
// backing array of poses and may be shorter.
func AddLatLon(poses []PoseRecord) []PoseRecord {
	out := poses[:0]
	for _, pose := range poses {
		lat, lon, err := UTM.ToLatLon(pose.Easting, pose.Northing, pose.Zone, "", pose.North)
		if err != nil {
			log.Warnf("dropping pose at %s (%s)", pose.Time.Format(time.RFC3339Nano), err)
			continue
		}
		pose.Latitude = lat
		pose.Longitude = lon
		out = append(out, pose)
	}
	return out
}

// Georeference removes outliers and then converts the remaining poses to
// latitude and longitude. A tolerance of zero or less selects
// DefaultOutlierTolerance.
func Georeference(poses []PoseRecord, tolerance float64) []PoseRecord {
	if tolerance <= 0 {
		tolerance = DefaultOutlierTolerance
	}
	return AddLatLon(RemoveOutliers(poses, tolerance))
}

// ToUTM is the forward projection matching AddLatLon.
func ToUTM(latitude, longitude float64) (easting, northing float64, zone int, north bool, err error) {
	north = latitude >= 0
	easting, northing, zone, _, err = UTM.FromLatLon(latitude, longitude, north)
	return easting, northing, zone, north, err
}

// TrackLength is the haversine length in meters of the path through the
// poses' geographic positions.
func TrackLength(poses []PoseRecord) float64 {
	if len(poses) < 2 {
		return 0
	}
	path := geo.NewPath()
	for _, pose := range poses {
		path.Push(geo.NewPoint(pose.Longitude, pose.Latitude))
	}
	return path.GeoDistance(true)
}
