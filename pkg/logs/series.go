package logs

import (
	"sort"
	"time"

	"github.com/platypusllc/analytics/pkg/conversions"
)

// PoseChannel is the dataset key of the vehicle position series.
const PoseChannel = "pose"

// PoseFields are the columns of the pose series. hemi is 1 for the northern
// hemisphere and 0 for the southern.
var PoseFields = []string{"easting", "northing", "altitude", "zone", "hemi", "latitude", "longitude"}

// PoseRecord is a georeferenced vehicle position.
type PoseRecord = conversions.PoseRecord

// Entry is one decoded reading before it is added to its series.
type Entry struct {
	Time    time.Time
	Channel string
	Values  []float64
}

// Record is one row of a Series.
type Record struct {
	Time   time.Time
	Values []float64
}

// Series is the time ordered readings of one channel. Every record has the
// same number of values. Fields names the values; it is nil for channels
// the readers know nothing about.
type Series struct {
	Channel string
	Fields  []string
	Records []Record
}

func (s *Series) Len() int {
	return len(s.Records)
}

// Arity is the number of values per record.
func (s *Series) Arity() int {
	if len(s.Fields) > 0 {
		return len(s.Fields)
	}
	if len(s.Records) > 0 {
		return len(s.Records[0].Values)
	}
	return 0
}

// FieldIndex returns the column of the named field, or -1.
func (s *Series) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named field's values, or nil if the series
// has no such field.
func (s *Series) Column(name string) []float64 {
	i := s.FieldIndex(name)
	if i < 0 {
		return nil
	}
	values := make([]float64, len(s.Records))
	for j, r := range s.Records {
		values[j] = r.Values[i]
	}
	return values
}

func (s *Series) Times() []time.Time {
	times := make([]time.Time, len(s.Records))
	for i, r := range s.Records {
		times[i] = r.Time
	}
	return times
}

// Last returns the final record; ok is false for an empty series.
func (s *Series) Last() (r Record, ok bool) {
	if len(s.Records) == 0 {
		return Record{}, false
	}
	return s.Records[len(s.Records)-1], true
}

func (s *Series) filter(keep func(Record) bool) *Series {
	out := &Series{Channel: s.Channel, Fields: s.Fields, Records: make([]Record, 0, len(s.Records))}
	for _, r := range s.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})
}

// Dataset maps channel names to series. A log with any position records
// has a PoseChannel entry.
type Dataset map[string]*Series

// Channels returns the channel names in sorted order.
func (d Dataset) Channels() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Poses rebuilds the pose records of the pose series.
func (d Dataset) Poses() []PoseRecord {
	s, ok := d[PoseChannel]
	if !ok {
		return nil
	}
	poses := make([]PoseRecord, len(s.Records))
	for i, r := range s.Records {
		poses[i] = PoseRecord{
			Time:      r.Time,
			Easting:   r.Values[0],
			Northing:  r.Values[1],
			Altitude:  r.Values[2],
			Zone:      int(r.Values[3]),
			North:     r.Values[4] != 0,
			Latitude:  r.Values[5],
			Longitude: r.Values[6],
		}
	}
	return poses
}

func poseSeries(poses []PoseRecord) *Series {
	s := &Series{Channel: PoseChannel, Fields: PoseFields, Records: make([]Record, len(poses))}
	for i, p := range poses {
		hemi := 0.0
		if p.North {
			hemi = 1
		}
		s.Records[i] = Record{
			Time:   p.Time,
			Values: []float64{p.Easting, p.Northing, p.Altitude, float64(p.Zone), hemi, p.Latitude, p.Longitude},
		}
	}
	return s
}
