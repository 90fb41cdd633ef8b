package logs

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/platypusllc/analytics/pkg/conversions"
)

var (
	batteryFields = []string{"voltage", "m0_current", "m1_current"}
	es2Fields     = []string{"ec", "temperature"}
	doFields      = []string{"do"}
	phFields      = []string{"ph"}
)

// fieldTables names the values of the sensors each format version knows.
// v4.0.0 logs use lower case sensor types.
var fieldTables = map[FormatVersion]map[string][]string{
	V400: {
		"battery":  batteryFields,
		"es2":      es2Fields,
		"atlas_do": doFields,
		"atlas_ph": phFields,
	},
	V410: {
		"BATTERY":  batteryFields,
		"ES2":      es2Fields,
		"ATLAS_DO": doFields,
		"ATLAS_PH": phFields,
	},
	V420: {
		"BATTERY":  batteryFields,
		"ES2":      es2Fields,
		"ATLAS_DO": doFields,
		"ATLAS_PH": phFields,
	},
}

// assembler collects decoded readings per channel in arrival order.
type assembler struct {
	version  FormatVersion
	poses    []PoseRecord
	channels map[string][]Record
}

func newAssembler(version FormatVersion) *assembler {
	return &assembler{version: version, channels: map[string][]Record{}}
}

func (a *assembler) addPose(pose PoseRecord) {
	a.poses = append(a.poses, pose)
}

func (a *assembler) add(e Entry) {
	a.channels[e.Channel] = append(a.channels[e.Channel], Record{Time: e.Time, Values: e.Values})
}

// dataset materializes the collected readings. Known sensors get their field
// names; channels whose arity is not constant, or does not match the known
// field names, are dropped with a warning. Poses are georeferenced.
func (a *assembler) dataset(tolerance float64) Dataset {
	data := Dataset{}
	table := fieldTables[a.version]

	names := make([]string, 0, len(a.channels))
	for name := range a.channels {
		names = append(names, name)
	}
	sort.Strings(names)

ChannelLoop:
	for _, name := range names {
		records := a.channels[name]
		arity := len(records[0].Values)
		for _, r := range records[1:] {
			if len(r.Values) != arity {
				log.Warnf("dropping channel %s: records have %d and %d values", name, arity, len(r.Values))
				continue ChannelLoop
			}
		}
		fields, known := table[name]
		if known && len(fields) != arity {
			log.Warnf("dropping channel %s: %d values per record, want %d (%v)", name, arity, len(fields), fields)
			continue ChannelLoop
		}
		sortRecords(records)
		data[name] = &Series{Channel: name, Fields: fields, Records: records}
	}

	if len(a.poses) > 0 {
		sort.SliceStable(a.poses, func(i, j int) bool {
			return a.poses[i].Time.Before(a.poses[j].Time)
		})
		poses := conversions.Georeference(a.poses, tolerance)
		data[PoseChannel] = poseSeries(poses)
	}
	return data
}
