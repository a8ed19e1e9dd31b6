package textsource

import (
	"fmt"
	"io"

	"github.com/gyeh/chronosync/internal/model"
)

// TextReader yields its whole input as a single record.
type TextReader struct {
	id     string
	src    io.Reader
	closer io.Closer
	done   bool
}

// NewTextReader reads src as one record with the given id. It does not close src.
func NewTextReader(id string, src io.Reader) *TextReader {
	return &TextReader{id: id, src: src}
}

func (r *TextReader) Read(records []model.Record) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	if len(records) == 0 {
		return 0, nil
	}
	b, err := io.ReadAll(r.src)
	if err != nil {
		return 0, fmt.Errorf("read text %s: %w", r.id, err)
	}
	r.done = true
	records[0] = model.Record{ID: r.id, Text: string(b)}
	return 1, io.EOF
}

func (r *TextReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
