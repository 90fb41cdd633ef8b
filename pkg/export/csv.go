// Package export writes parsed vehicle logs in formats other tools read:
// CSV tables per channel, and the vehicle track as GeoJSON or GPX.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/platypusllc/analytics/pkg/logs"
)

// TimeFormat is used for the time column of CSV files.
const TimeFormat = "2006-01-02 15:04:05.000"

func header(s *logs.Series) []string {
	row := []string{"time"}
	if s.Fields != nil {
		return append(row, s.Fields...)
	}
	for i := 0; i < s.Arity(); i++ {
		row = append(row, "field_"+strconv.Itoa(i))
	}
	return row
}

// WriteCSV writes one row per record of s, preceded by a header row.
func WriteCSV(w io.Writer, s *logs.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(s)); err != nil {
		return err
	}
	row := make([]string, 0, s.Arity()+1)
	for _, r := range s.Records {
		row = append(row[:0], r.Time.UTC().Format(TimeFormat))
		for _, v := range r.Values {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVDir writes every channel of ds to <dir>/<channel>.csv and returns
// the paths written.
func WriteCSVDir(dir string, ds logs.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, channel := range ds.Channels() {
		path := filepath.Join(dir, channel+".csv")
		if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, ds[channel]) }); err != nil {
			return paths, errors.Wrapf(err, "writing %s", path)
		}
		log.Infof("wrote %d %s rows to %s", ds[channel].Len(), channel, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
