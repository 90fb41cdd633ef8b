package logs

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// FormatVersion identifies the wire format written by a vehicle server.
type FormatVersion int

const (
	FormatUnknown FormatVersion = iota
	V400
	V410
	V420
)

func (v FormatVersion) String() string {
	switch v {
	case V400:
		return "v4.0.0"
	case V410:
		return "v4.1.0"
	case V420:
		return "v4.2.0"
	default:
		return "unknown"
	}
}

// splitRecord splits line at the first two spaces or tabs, whichever comes
// first, into at most three fields.
func splitRecord(line string) []string {
	fields := make([]string, 0, 3)
	for len(fields) < 2 {
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			break
		}
		fields = append(fields, line[:i])
		line = line[i+1:]
	}
	return append(fields, line)
}

// Detect classifies the first record of a log.
//
// A record that starts with a time offset and has a single character second
// field is v4.2.0 (the field is the log level). Otherwise a time offset
// followed by a JSON object in the third field means v4.1.0. Anything else
// with at least three fields is handed to the v4.0.0 reader, which skips
// malformed lines one at a time.
func Detect(line string) (FormatVersion, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := splitRecord(line)
	if len(fields) < 3 {
		return FormatUnknown, errors.Wrapf(ErrUnrecognizedFormat, "first record %q has fewer than three fields", line)
	}
	if _, ok := offsetMillis(fields[0]); !ok {
		return V400, nil
	}
	if len(fields[1]) == 1 {
		return V420, nil
	}
	if isJSONObject(fields[2]) {
		return V410, nil
	}
	return V400, nil
}

func isJSONObject(s string) bool {
	var p fastjson.Parser
	v, err := p.Parse(s)
	return err == nil && v.Type() == fastjson.TypeObject
}
