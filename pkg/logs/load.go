// Package logs reads Platypus vehicle server logs into per-channel time
// series.
//
// Three wire formats are supported:
//
//	v4.0.0  <offset> HH:MM:SS,mmm <message>     start time in the file name
//	v4.1.0  <offset> <date> <json message>
//	v4.2.0  <offset>\t<level>\t<json message>  clock set by "date" messages
//
// Read and Load detect the format from the first record. Pose records are
// converted from UTM to latitude and longitude after GPS outliers are
// removed.
package logs

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Loader holds the parse options. The zero value is ready to use.
type Loader struct {
	// Tolerance is the pose outlier distance in meters. Zero selects
	// conversions.DefaultOutlierTolerance.
	Tolerance float64
	// Procs bounds how many files LoadFiles parses at once. Values below
	// one parse files one after another.
	Procs int
}

// DefaultLoader is used by the package level functions.
var DefaultLoader = Loader{}

// Read reads a log of any supported format using DefaultLoader. filename is
// needed for v4.0.0 logs only.
func Read(r io.Reader, filename string) (Dataset, error) {
	return DefaultLoader.Read(r, filename)
}

// Load reads the named log using DefaultLoader.
func Load(filename string) (Dataset, error) {
	return DefaultLoader.Load(filename)
}

// LoadFiles reads and merges the named logs using DefaultLoader.
func LoadFiles(filenames []string) (Dataset, error) {
	return DefaultLoader.LoadFiles(filenames)
}

// Read detects the format of the log from its first non-blank line and
// decodes it with the matching reader.
func (l Loader) Read(r io.Reader, filename string) (Dataset, error) {
	br := bufio.NewReader(r)
	var head strings.Builder
	var first string
	for {
		line, err := br.ReadString('\n')
		head.WriteString(line)
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
		if err == io.EOF {
			return nil, errors.Wrapf(ErrUnrecognizedFormat, "%s has no records", filename)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", filename)
		}
	}

	version, err := Detect(first)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	log.Debugf("%s: %s log", filename, version)

	rest := io.MultiReader(strings.NewReader(head.String()), br)
	switch version {
	case V420:
		return l.ReadV420(rest)
	case V410:
		return l.ReadV410(rest)
	default:
		return l.ReadV400(rest, filename)
	}
}

// Load opens, reads and closes the named log. Files ending in .gz or .zst
// are decompressed.
func (l Loader) Load(filename string) (Dataset, error) {
	rc, name, err := openLog(filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return l.Read(rc, name)
}

// LoadFiles loads each file and merges the results in list order with
// Merge. Up to Procs files are parsed concurrently; the merge itself is
// sequential, so the result does not depend on Procs. Any failing file fails
// the whole call.
func (l Loader) LoadFiles(filenames []string) (Dataset, error) {
	datasets := make([]Dataset, len(filenames))
	g, ctx := errgroup.WithContext(context.Background())
	procs := l.Procs
	if procs < 1 {
		procs = 1
	}
	g.SetLimit(procs)
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, err := l.Load(filename)
			if err != nil {
				return errors.Wrapf(err, "loading %s", filename)
			}
			log.Infof("loaded %d channels from %s", len(ds), filename)
			datasets[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(datasets...), nil
}
