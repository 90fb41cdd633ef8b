package logs

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/platypusllc/analytics/pkg/conversions"
)

type ChannelSummary struct {
	Channel string
	Rows    int
	First   time.Time
	Last    time.Time
	// MeanInterval and MinInterval describe the gaps between consecutive
	// rows with distinct timestamps.
	MeanInterval time.Duration
	MinInterval  time.Duration
}

type Summary struct {
	Channels []ChannelSummary
	// TrackLength is the distance in meters covered by the pose series.
	TrackLength float64
}

func summarizeSeries(s *Series) ChannelSummary {
	cs := ChannelSummary{Channel: s.Channel, Rows: s.Len()}
	if s.Len() == 0 {
		return cs
	}
	times := s.Times()
	cs.First = times[0]
	cs.Last = times[len(times)-1]

	var diffs stats.Float64Data
	for i := 1; i < len(times); i++ {
		if d := times[i].Sub(times[i-1]); d > 0 {
			diffs = append(diffs, float64(d))
		}
	}
	if mean, err := stats.Mean(diffs); err == nil {
		cs.MeanInterval = time.Duration(mean)
	}
	if shortest, err := stats.Min(diffs); err == nil {
		cs.MinInterval = time.Duration(shortest)
	}
	return cs
}

// Summarize describes each channel of ds, in channel name order.
func Summarize(ds Dataset) Summary {
	var summary Summary
	for _, name := range ds.Channels() {
		summary.Channels = append(summary.Channels, summarizeSeries(ds[name]))
	}
	summary.TrackLength = conversions.TrackLength(ds.Poses())
	return summary
}
