package logs

import (
	"math"
	"strconv"
)

// Merge combines datasets from logs that cover sequential or overlapping
// periods. The result holds every channel of every input.
//
// For each channel the first dataset holding it is the base. Each later
// dataset holding the channel is folded in: columns are united, its rows at
// timestamps the base does not have are added, and finally rows missing any
// value are dropped. A single dataset is returned as is.
func Merge(datasets ...Dataset) Dataset {
	switch len(datasets) {
	case 0:
		return Dataset{}
	case 1:
		return datasets[0]
	}

	merged := Dataset{}
	for _, ds := range datasets {
		for channel, s := range ds {
			base, ok := merged[channel]
			if !ok {
				merged[channel] = s
				continue
			}
			merged[channel] = combine(base, s)
		}
	}
	return merged
}

func columnNames(s *Series) []string {
	if s.Fields != nil {
		return s.Fields
	}
	names := make([]string, s.Arity())
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// project lays values out in the order of columns, leaving NaN where the
// series has no such column.
func project(values []float64, from []string, columns map[string]int) []float64 {
	out := make([]float64, len(columns))
	for i := range out {
		out[i] = math.NaN()
	}
	for i, name := range from {
		if i < len(values) {
			out[columns[name]] = values[i]
		}
	}
	return out
}

func combine(base, other *Series) *Series {
	baseNames, otherNames := columnNames(base), columnNames(other)
	names := append([]string{}, baseNames...)
	columns := map[string]int{}
	for i, name := range names {
		columns[name] = i
	}
	for _, name := range otherNames {
		if _, ok := columns[name]; !ok {
			columns[name] = len(names)
			names = append(names, name)
		}
	}

	records := make([]Record, 0, base.Len()+other.Len())
	seen := map[int64]bool{}
	for _, r := range base.Records {
		seen[r.Time.UnixNano()] = true
		records = append(records, Record{Time: r.Time, Values: project(r.Values, baseNames, columns)})
	}
	for _, r := range other.Records {
		if seen[r.Time.UnixNano()] {
			continue
		}
		records = append(records, Record{Time: r.Time, Values: project(r.Values, otherNames, columns)})
	}
	sortRecords(records)

	complete := records[:0]
RecordLoop:
	for _, r := range records {
		for _, v := range r.Values {
			if math.IsNaN(v) {
				continue RecordLoop
			}
		}
		complete = append(complete, r)
	}

	var fields []string
	if base.Fields != nil || other.Fields != nil {
		fields = names
	}
	return &Series{Channel: base.Channel, Fields: fields, Records: complete}
}
