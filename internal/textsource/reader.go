// Package textsource reads the text records that the extractor scans.
package textsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/chronosync/internal/model"
)

// Reader streams records. Read fills up to len(records) and returns io.EOF
// once the source is exhausted; a call may return n > 0 together with io.EOF.
type Reader interface {
	Read(records []model.Record) (int, error)
	Close() error
}

// Stdin is the path that selects standard input.
const Stdin = "-"

// Open picks a reader by path: ".parquet" files are read as record datasets,
// "-" reads standard input, anything else is one plain text record.
func Open(path string) (Reader, error) {
	if path == Stdin {
		return NewTextReader("stdin", os.Stdin), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		r, err := OpenParquet(path)
		if err != nil {
			return nil, err
		}
		if err := ValidateSchema(r.Schema()); err != nil {
			r.Close()
			return nil, fmt.Errorf("validate %s: %w", path, err)
		}
		return r, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text file: %w", err)
	}
	tr := NewTextReader(filepath.Base(path), f)
	tr.closer = f
	return tr, nil
}
