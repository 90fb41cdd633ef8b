package logs

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultConductivityThreshold is the EC below which the ES2 probe is taken
// to be out of the water.
const DefaultConductivityThreshold = 100.0

// DefaultWindowGap is the number of ES2 rows a low EC run may skip before a
// new window starts.
const DefaultWindowGap = 5

type window struct {
	first, last time.Time
}

// lowConductivityWindows groups the ES2 rows with ec below threshold into
// time windows. A window ends when the next low row is more than gap rows
// further on.
func lowConductivityWindows(es2 *Series, threshold float64, gap int) []window {
	ec := es2.FieldIndex("ec")
	if ec < 0 {
		return nil
	}
	var low []int
	for i, r := range es2.Records {
		if r.Values[ec] < threshold {
			low = append(low, i)
		}
	}
	if len(low) == 0 {
		return nil
	}

	var windows []window
	start, left := low[0], low[0]
	for _, i := range low[1:] {
		if i-left > gap {
			windows = append(windows, window{es2.Records[start].Time, es2.Records[left].Time})
			start = i
		}
		left = i
	}
	return append(windows, window{es2.Records[start].Time, es2.Records[left].Time})
}

// TrimByConductivity drops the rows of every channel that fall inside a
// period where the ES2 conductivity stays below threshold, which is when the
// vehicle is out of the water. Window bounds are inclusive. A dataset without
// an ES2 channel is returned unchanged; otherwise a new dataset is returned.
func TrimByConductivity(ds Dataset, threshold float64, gap int) Dataset {
	es2, ok := ds["ES2"]
	if !ok {
		es2, ok = ds["es2"]
	}
	if !ok {
		log.Infof("no ES2 sensor present, no trimming performed")
		return ds
	}
	windows := lowConductivityWindows(es2, threshold, gap)
	log.Infof("trimming %d windows with EC < %.0f", len(windows), threshold)

	trimmed := Dataset{}
	for name, s := range ds {
		trimmed[name] = s.filter(func(r Record) bool {
			for _, w := range windows {
				if !r.Time.Before(w.first) && !r.Time.After(w.last) {
					return false
				}
			}
			return true
		})
	}
	return trimmed
}
