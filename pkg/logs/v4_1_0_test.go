package logs

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

const logV410 = `0 2017-03-14T10:00:00.000 {"pose":{"p":[591672.17,4482691.07,271.5],"q":[0,0,1.2],"zone":"17North"}}
500 2017-03-14T10:00:00.500 {"sensor":{"type":"ES2","data":[153.5,20.9]}}
1000 2017-03-14T10:00:01.000 {"sensor":{"type":"ES2","data":["167.5","20.5"]}}

1500 2017-03-14T10:00:01.500 {"sensor":{"type":"BATTERY","data":"15.87 0.41 0.42"}}
2000 2017-03-14T10:00:02.000 {"sensor":{"type":"ATLAS_DO","data":7.57}}
2500 2017-03-14T10:00:02.500 {"sensor":{"type":"SONAR","data":[1,2,3,4]}}
3000 2017-03-14T10:00:03.000 {"cmd":"ignored"}
3500 2017-03-14T10:00:03.500 {"pose":{"p":[591672.97,4482691.62,271.5],"zone":"17North"}}
`

func TestReadV410(t *testing.T) {
	ds, err := ReadV410(strings.NewReader(logV410))
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		channel string
		rows    int
		fields  []string
	}{
		{"ES2", 2, es2Fields},
		{"BATTERY", 1, batteryFields},
		{"ATLAS_DO", 1, doFields},
		{"SONAR", 1, nil},
		{PoseChannel, 2, PoseFields},
	} {
		s, ok := ds[tt.channel]
		if !ok {
			t.Errorf("no %s channel", tt.channel)
			continue
		}
		if s.Len() != tt.rows {
			t.Errorf("%s has %d rows, want %d", tt.channel, s.Len(), tt.rows)
		}
		if strings.Join(s.Fields, ",") != strings.Join(tt.fields, ",") || (s.Fields == nil) != (tt.fields == nil) {
			t.Errorf("%s fields = %v, want %v", tt.channel, s.Fields, tt.fields)
		}
	}

	es2 := ds["ES2"]
	if want := epoch.Add(500 * time.Millisecond); !es2.Records[0].Time.Equal(want) {
		t.Errorf("first ES2 at %s, want %s", es2.Records[0].Time, want)
	}
	if ec := es2.Column("ec"); ec[1] != 167.5 {
		t.Errorf("second ec = %v, want 167.5", ec[1])
	}
	if sonar := ds["SONAR"].Records[0].Values; len(sonar) != 4 || sonar[3] != 4 {
		t.Errorf("SONAR = %v", sonar)
	}
	for _, p := range ds.Poses() {
		if p.Latitude < 40.4 || p.Latitude > 40.6 || p.Longitude < -80 || p.Longitude > -79.8 {
			t.Errorf("pose at %f, %f", p.Latitude, p.Longitude)
		}
	}
}

func TestReadV410Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		err  error
	}{
		{"truncated json", `1000 2017-03-14T10:00:01.000 {"sensor":{"type":"ES2",`, ErrMalformedJSON},
		{"json array", `1000 2017-03-14T10:00:01.000 [153.5, 20.9]`, ErrMalformedJSON},
		{"bad offset", `1.5 2017-03-14T10:00:01.000 {"cmd":"x"}`, ErrUnparsableRecord},
		{"two fields", `1000 {"cmd":"x"}`, ErrUnparsableRecord},
		{"short position", `1000 2017-03-14T10:00:01.000 {"pose":{"p":[1,2],"zone":"17North"}}`, ErrUnparsableRecord},
		{"bad zone", `1000 2017-03-14T10:00:01.000 {"pose":{"p":[1,2,3],"zone":"17"}}`, ErrUnparsableRecord},
		{"sensor without type", `1000 2017-03-14T10:00:01.000 {"sensor":{"data":[1]}}`, ErrUnparsableRecord},
		{"sensor without data", `1000 2017-03-14T10:00:01.000 {"sensor":{"type":"ES2"}}`, ErrUnparsableRecord},
		{"non numeric data", `1000 2017-03-14T10:00:01.000 {"sensor":{"type":"ES2","data":[1,"x"]}}`, ErrUnparsableRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadV410(strings.NewReader(logV410 + tt.line + "\n" + logV410))
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			if ds != nil {
				t.Errorf("got a dataset with %d channels alongside the error", len(ds))
			}
			if !strings.Contains(err.Error(), "line 10") {
				t.Errorf("error %q does not name line 10", err)
			}
		})
	}
}
