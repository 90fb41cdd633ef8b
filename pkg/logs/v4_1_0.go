package logs

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ReadV410 reads a v4.1.0 log using DefaultLoader.
func ReadV410(r io.Reader) (Dataset, error) {
	return DefaultLoader.ReadV410(r)
}

// ReadV410 reads a v4.1.0 log, whose lines are
//
//	<offset> <date> <json message>
//
// Offsets are taken from the Unix epoch; the date field is not used. Any
// record that does not decode aborts the whole log, since later timestamps
// can no longer be trusted.
func (l Loader) ReadV410(r io.Reader) (Dataset, error) {
	d := newDecoder(V410, epoch)
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
		fields := strings.SplitN(line, " ", 3)
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
		if err := d.decodeEntry(obj, t); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading v4.1.0 log")
	}
	return d.out.dataset(l.Tolerance), nil
}
