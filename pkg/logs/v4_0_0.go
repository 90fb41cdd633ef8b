package logs

import (
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const floatPattern = `[-+]?[0-9]*\.?[0-9]+`

// <name>_YYYYMMDD_HHMMSS.txt
var filenameV400 = regexp.MustCompile(
	`^.*_(?P<year>\d{4})(?P<month>\d{2})(?P<day>\d{2})` +
		`_(?P<hour>\d{2})(?P<minute>\d{2})(?P<second>\d{2})\.txt$`)

// <offset> HH:MM:SS,FFF <message>
var recordV400 = regexp.MustCompile(
	`^(?P<offset>\d+) ` +
		`(?P<hour>\d{2}):(?P<minute>\d{2}):(?P<second>\d{2}),(?P<millis>\d+) ` +
		`(?P<message>.+\S)\s*$`)

// POSE: {<east>, <north>, <altitude>, Q[<roll>,<pitch>,<yaw>]} @ <zone><hemi>
var poseV400 = regexp.MustCompile(
	`^POSE: \{` +
		`(?P<easting>` + floatPattern + `), (?P<northing>` + floatPattern + `), (?P<altitude>` + floatPattern + `), ` +
		`Q\[(?P<roll>` + floatPattern + `),(?P<pitch>` + floatPattern + `),(?P<yaw>` + floatPattern + `)\]` +
		`\} @ (?P<zone>\d+)(?P<hemi>North|South)$`)

// ES2: [e, <ec>, <temp>]
var es2V400 = regexp.MustCompile(`^ES2: \[e, (?P<ec>[\d.]+), (?P<temp>[\d.]+)\]`)

// SENSOR1: {"data":"7.78","type":"atlas_do"}
var sensorV400 = regexp.MustCompile(
	`^SENSOR(?P<index>\d+): \{"data":"(?P<data>.+)","type":"(?P<type>\S+)"\}`)

func group(re *regexp.Regexp, m []string, name string) string {
	return m[re.SubexpIndex(name)]
}

// startTimeV400 reads the log start time from a v4.0.0 file name. The
// vehicle wrote it in UTC.
func startTimeV400(filename string) (time.Time, error) {
	m := filenameV400.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return time.Time{}, errors.Wrapf(ErrInvalidFilename,
			"v4.0.0 log files must be named '<name>_<YYYYMMDD>_<HHMMSS>.txt', got %q", filename)
	}
	t, err := time.Parse("20060102150405",
		group(filenameV400, m, "year")+group(filenameV400, m, "month")+group(filenameV400, m, "day")+
			group(filenameV400, m, "hour")+group(filenameV400, m, "minute")+group(filenameV400, m, "second"))
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidFilename, "%q (%s)", filename, err)
	}
	return t, nil
}

func parseFloats(ss ...string) ([]float64, error) {
	values := make([]float64, len(ss))
	for i, s := range ss {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// ReadV400 reads a v4.0.0 log using DefaultLoader.
func ReadV400(r io.Reader, filename string) (Dataset, error) {
	return DefaultLoader.ReadV400(r, filename)
}

// ReadV400 reads a v4.0.0 log. The start time comes from filename; each line
// adds its millisecond offset to it. Lines that are not records, and records
// whose values do not parse, are logged and skipped. Messages other than
// POSE, ES2 and SENSOR are ignored.
func (l Loader) ReadV400(r io.Reader, filename string) (Dataset, error) {
	start, err := startTimeV400(filename)
	if err != nil {
		return nil, err
	}
	d := newDecoder(V400, start)

	scanner := newLineScanner(r)
	lineNumber := 0
LineLoop:
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue LineLoop
		}
		m := recordV400.FindStringSubmatch(line)
		if m == nil {
			log.Warnf("%s:%d: %s", filename, lineNumber, errors.Wrapf(ErrUnparsableRecord, "%q", line))
			continue LineLoop
		}
		offset, err := parseOffset(group(recordV400, m, "offset"))
		if err != nil {
			log.Warnf("%s:%d: %s", filename, lineNumber, err)
			continue LineLoop
		}
		t := d.clock.at(offset)
		message := group(recordV400, m, "message")

		if pm := poseV400.FindStringSubmatch(message); pm != nil {
			values, err := parseFloats(
				group(poseV400, pm, "easting"), group(poseV400, pm, "northing"), group(poseV400, pm, "altitude"))
			if err != nil {
				log.Warnf("%s:%d: %s", filename, lineNumber, errors.Wrapf(ErrUnparsableRecord, "pose %q (%s)", message, err))
				continue LineLoop
			}
			zone, err := d.zones.lookup(group(poseV400, pm, "zone") + group(poseV400, pm, "hemi"))
			if err != nil {
				log.Warnf("%s:%d: %s", filename, lineNumber, err)
				continue LineLoop
			}
			d.out.addPose(PoseRecord{
				Time:     t,
				Easting:  values[0],
				Northing: values[1],
				Altitude: values[2],
				Zone:     zone.number,
				North:    zone.north,
			})
			continue LineLoop
		}

		if em := es2V400.FindStringSubmatch(message); em != nil {
			values, err := parseFloats(group(es2V400, em, "ec"), group(es2V400, em, "temp"))
			if err != nil {
				log.Warnf("%s:%d: %s", filename, lineNumber, errors.Wrapf(ErrUnparsableRecord, "ES2 %q (%s)", message, err))
				continue LineLoop
			}
			d.out.add(Entry{Time: t, Channel: "es2", Values: values})
			continue LineLoop
		}

		if sm := sensorV400.FindStringSubmatch(message); sm != nil {
			sensorType := group(sensorV400, sm, "type")
			values, err := parseFloats(strings.Fields(group(sensorV400, sm, "data"))...)
			if err != nil || len(values) == 0 {
				log.Warnf("%s:%d: %s", filename, lineNumber, errors.Wrapf(ErrUnparsableRecord, "sensor %q", message))
				continue LineLoop
			}
			d.out.add(Entry{Time: t, Channel: sensorType, Values: values})
			continue LineLoop
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return d.out.dataset(l.Tolerance), nil
}
