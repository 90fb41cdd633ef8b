package logs

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestReadV420Resync(t *testing.T) {
	input := strings.Join([]string{
		"1000\tI\t{\"sensor\":{\"type\":\"ES2\",\"data\":[150,20]}}",
		"5000\tI\t{\"date\":\"2017-03-14 10:00:00\",\"time\":1489485600000}",
		"6000\tI\t{\"sensor\":{\"type\":\"ES2\",\"data\":[151,20]}}",
		"6500\tW\t{\"date\":\"2017-03-14 10:00:02\",\"time\":1489485602000,\"sensor\":{\"type\":\"ES2\",\"data\":[152,20]}}",
		"7000\tI\t{\"sensor\":{\"type\":\"ES2\",\"data\":[153,20]}}",
	}, "\n")
	ds, err := ReadV420(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	date := time.UnixMilli(1489485600000).UTC()
	want := []struct {
		at time.Time
		ec float64
	}{
		{epoch.Add(time.Second), 150},
		{date.Add(time.Second), 151},
		{date.Add(2 * time.Second), 152},
		{date.Add(2500 * time.Millisecond), 153},
	}
	es2 := ds["ES2"]
	if es2.Len() != len(want) {
		t.Fatalf("ES2 has %d rows, want %d", es2.Len(), len(want))
	}
	for i, w := range want {
		r := es2.Records[i]
		if !r.Time.Equal(w.at) || r.Values[0] != w.ec {
			t.Errorf("row %d = %s %v, want %s %v", i, r.Time, r.Values[0], w.at, w.ec)
		}
	}
}

func TestReadV420Pose(t *testing.T) {
	input := strings.Join([]string{
		"0\tI\t{\"pose\":{\"p\":[0,0,0],\"zone\":\"17North\"}}",
		"1000\tI\t{\"date\":\"2017-03-14 10:00:00\",\"time\":1489485600000,\"pose\":{\"p\":[591672.17,4482691.07,271.5],\"zone\":\"17North\"}}",
		"1500\tI\t{\"pose\":{\"p\":[591672.97,4482691.62,271.5],\"zone\":\"17North\"}}",
		"2000\tI\t{\"pose\":{\"p\":[591673.77,4482692.17,271.5],\"zone\":\"17North\"}}",
	}, "\n")
	ds, err := ReadV420(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	poses := ds.Poses()
	if len(poses) != 3 {
		t.Fatalf("got %d poses, want 3 with the unlocked fix removed", len(poses))
	}
	date := time.UnixMilli(1489485600000).UTC()
	for i, want := range []time.Time{date, date.Add(500 * time.Millisecond), date.Add(time.Second)} {
		p := poses[i]
		if !p.Time.Equal(want) {
			t.Errorf("pose %d at %s, want %s", i, p.Time, want)
		}
		if i > 0 && p.Time.Before(poses[i-1].Time) {
			t.Errorf("pose %d is out of order", i)
		}
		if math.Abs(p.Latitude-40.49) > 0.01 || math.Abs(p.Longitude+79.918) > 0.01 {
			t.Errorf("pose %d at %f, %f", i, p.Latitude, p.Longitude)
		}
	}
}

func TestReadV420SortsAfterResync(t *testing.T) {
	// The second date moves the clock back, so the last reading lands
	// between the first two.
	input := strings.Join([]string{
		"0\tI\t{\"date\":\"x\",\"time\":10000}",
		"1000\tI\t{\"sensor\":{\"type\":\"ATLAS_DO\",\"data\":[1]}}",
		"3000\tI\t{\"sensor\":{\"type\":\"ATLAS_DO\",\"data\":[3]}}",
		"4000\tI\t{\"date\":\"x\",\"time\":11000}",
		"5000\tI\t{\"sensor\":{\"type\":\"ATLAS_DO\",\"data\":[2]}}",
	}, "\n")
	ds, err := ReadV420(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	do := ds["ATLAS_DO"].Column("do")
	if len(do) != 3 || do[0] != 1 || do[1] != 2 || do[2] != 3 {
		t.Errorf("do = %v, want [1 2 3]", do)
	}
}

func TestReadV420Errors(t *testing.T) {
	for _, tt := range []struct {
		name string
		line string
		err  error
	}{
		{"malformed", "1000\tI\t{\"sensor\":", ErrMalformedJSON},
		{"date without time", "1000\tI\t{\"date\":\"2017-03-14\"}", ErrUnparsableRecord},
		{"bad time", "1000\tI\t{\"date\":\"2017-03-14\",\"time\":\"soon\"}", ErrUnparsableRecord},
		{"space separated", "1000 I {\"cmd\":\"x\"}", ErrUnparsableRecord},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadV420(strings.NewReader(tt.line))
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want %v", err, tt.err)
			}
		})
	}
}
