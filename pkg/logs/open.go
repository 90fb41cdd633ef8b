package logs

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const maxLineSize = 4 * 1024 * 1024

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return scanner
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type logReader struct {
	io.Reader
	io.Closer
}

// openLog opens a log file, decompressing .gz and .zst files. name is the
// file name without the compression suffix.
func openLog(filename string) (rc io.ReadCloser, name string, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, "", errors.Wrapf(err, "opening gzip log %s", filename)
		}
		return logReader{zr, multiCloser{f, zr}}, strings.TrimSuffix(filename, ".gz"), nil
	case strings.HasSuffix(filename, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, "", errors.Wrapf(err, "opening zstd log %s", filename)
		}
		zrc := zr.IOReadCloser()
		return logReader{zrc, multiCloser{f, zrc}}, strings.TrimSuffix(filename, ".zst"), nil
	default:
		return f, filename, nil
	}
}
