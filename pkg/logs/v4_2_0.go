package logs

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ReadV420 reads a v4.2.0 log using DefaultLoader.
func ReadV420(r io.Reader) (Dataset, error) {
	return DefaultLoader.ReadV420(r)
}

// ReadV420 reads a v4.2.0 log, whose lines are tab separated
//
//	<offset>	<level>	<json message>
//
// Offsets count from the Unix epoch until a message carrying "date" is
// seen. That message's "time" (milliseconds since the epoch) becomes its
// timestamp and later offsets are taken relative to it. Invalid records abort
// the log.
func (l Loader) ReadV420(r io.Reader) (Dataset, error) {
	d := newDecoder(V420, epoch)
	p := parserPool.Get()
	defer parserPool.Put(p)

	scanner := newLineScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			return nil, errors.Wrapf(ErrUnparsableRecord, "line %d: %q", lineNumber, line)
		}
		offset, err := parseOffset(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		t := d.clock.at(offset)

		obj, err := parseMessage(p, fields[2])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}

		// "date" and "time" are written together.
		if obj.Get("date") != nil {
			tv := obj.Get("time")
			if tv == nil {
				return nil, errors.Wrapf(ErrUnparsableRecord, "line %d: date without time", lineNumber)
			}
			ms, err := number(tv)
			if err != nil {
				return nil, errors.Wrapf(ErrUnparsableRecord, "line %d: time %s (%s)", lineNumber, tv, err)
			}
			t = time.UnixMilli(int64(math.Round(ms))).UTC()
			d.clock.resync(t, offset)
			log.Debugf("line %d: clock set to %s", lineNumber, t.Format(time.RFC3339Nano))
		}

		if err := d.decodeEntry(obj, t); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading v4.2.0 log")
	}
	return d.out.dataset(l.Tolerance), nil
}
