package logs

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var epoch = time.Unix(0, 0).UTC()

// clock holds the running start time that per-line offsets are relative to.
type clock struct {
	start time.Time
}

func (c *clock) at(offset time.Duration) time.Time {
	return c.start.Add(offset)
}

// resync makes t the time of the record at offset, so later offsets line up
// with the wall clock that produced t.
func (c *clock) resync(t time.Time, offset time.Duration) {
	c.start = t.Add(-offset)
}

// maxOffset is the largest millisecond offset a time.Duration can hold.
const maxOffset = math.MaxInt64 / int64(time.Millisecond)

// offsetMillis parses an offset field: unsigned decimal milliseconds.
func offsetMillis(s string) (int64, bool) {
	ms, err := strconv.ParseUint(s, 10, 64)
	if err != nil || ms > uint64(maxOffset) {
		return 0, false
	}
	return int64(ms), true
}

func parseOffset(s string) (time.Duration, error) {
	ms, ok := offsetMillis(s)
	if !ok {
		return 0, errors.Wrapf(ErrUnparsableRecord, "bad time offset %q", s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

type utmZone struct {
	number int
	north  bool
}

// zoneTable caches parsed zone strings such as "17North"; a log rarely has
// more than one.
type zoneTable map[string]utmZone

func (z zoneTable) lookup(s string) (utmZone, error) {
	if zone, ok := z[s]; ok {
		return zone, nil
	}
	var zone utmZone
	var digits string
	switch {
	case strings.HasSuffix(s, "North"):
		zone.north = true
		digits = strings.TrimSuffix(s, "North")
	case strings.HasSuffix(s, "South"):
		digits = strings.TrimSuffix(s, "South")
	default:
		return zone, errors.Wrapf(ErrUnparsableRecord, "bad UTM zone %q", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil || n < 1 || n > 60 {
		return zone, errors.Wrapf(ErrUnparsableRecord, "bad UTM zone %q", s)
	}
	zone.number = n
	z[s] = zone
	return zone, nil
}

// decoder is the state threaded through one pass over a log.
type decoder struct {
	clock clock
	zones zoneTable
	out   *assembler
}

func newDecoder(version FormatVersion, start time.Time) *decoder {
	return &decoder{
		clock: clock{start: start},
		zones: zoneTable{},
		out:   newAssembler(version),
	}
}
