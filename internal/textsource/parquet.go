package textsource

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/chronosync/internal/model"
)

// ParquetReader wraps a parquet GenericReader for streaming Records.
type ParquetReader struct {
	file   *os.File
	reader *parquet.GenericReader[model.Record]
	next   int64
}

// OpenParquet opens a Parquet file and returns a streaming reader.
func OpenParquet(path string) (*ParquetReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[model.Record](pf)
	return &ParquetReader{file: f, reader: r}, nil
}

// NumRows returns the total number of rows in the file.
func (r *ParquetReader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(records) rows. Rows without an id get "row-N",
// numbered from 1 in file order.
func (r *ParquetReader) Read(records []model.Record) (int, error) {
	n, err := r.reader.Read(records)
	for i := 0; i < n; i++ {
		r.next++
		if records[i].ID == "" {
			records[i].ID = fmt.Sprintf("row-%d", r.next)
		}
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// Schema returns the file schema for validation.
func (r *ParquetReader) Schema() *parquet.Schema {
	return r.reader.Schema()
}

// Close releases all resources.
func (r *ParquetReader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
