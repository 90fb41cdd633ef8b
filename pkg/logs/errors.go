package logs

import "github.com/pkg/errors"

// Errors returned by the readers, wrapped with the offending line or file.
// Match them with errors.Is.
var (
	// ErrUnrecognizedFormat means the first record matched none of the known
	// wire formats.
	ErrUnrecognizedFormat = errors.New("unrecognized log format")
	// ErrInvalidFilename means a v4.0.0 log name carries no start time.
	ErrInvalidFilename = errors.New("invalid log filename")
	// ErrMalformedJSON aborts v4.1.0 and v4.2.0 logs.
	ErrMalformedJSON = errors.New("malformed JSON log message")
	// ErrUnparsableRecord is a warning in v4.0.0 logs and fatal otherwise.
	ErrUnparsableRecord = errors.New("unparsable log record")
)
