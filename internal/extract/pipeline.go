// Package extract runs the scanner (and optionally the normalizer) over a
// stream of text records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/chronosync/internal/model"
	"github.com/gyeh/chronosync/internal/normalize"
	"github.com/gyeh/chronosync/internal/scan"
	"github.com/gyeh/chronosync/internal/textsource"
)

const readBatchSize = 256

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Sink receives findings in record order, and within a record in text order.
// A non-nil error stops the run.
type Sink func(model.Finding) error

// Options configures a run.
type Options struct {
	Scanner *scan.Scanner
	// Normalizer is required when Convert is set.
	Normalizer *normalize.Normalizer
	Convert    bool

	// Workers defaults to GOMAXPROCS.
	Workers int
	Now     time.Time
	Local   *time.Location

	// Source and SourceSHA256 are copied into the summary.
	Source       string
	SourceSHA256 string
}

type job struct {
	seq int64
	rec model.Record
}

type result struct {
	seq      int64
	findings []model.Finding
}

// Run reads every record from src, scans it and passes each finding to sink.
// Records are processed concurrently but findings are emitted in input order.
// Unrecognized dates are counted, never fatal.
func Run(ctx context.Context, src textsource.Reader, log zerolog.Logger, opts Options, sink Sink) (*model.Summary, error) {
	if opts.Scanner == nil {
		return nil, errors.New("extract: scanner is required")
	}
	if opts.Convert && opts.Normalizer == nil {
		return nil, errors.New("extract: normalizer is required to convert")
	}
	if sink == nil {
		sink = func(model.Finding) error { return nil }
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	start := time.Now()

	summary := &model.Summary{
		RunID:        uuid.NewString(),
		Source:       opts.Source,
		SourceSHA256: opts.SourceSHA256,
		ByPattern:    make(map[string]int64),
	}
	log = log.With().Str("run_id", summary.RunID).Logger()
	log.Info().
		Str("source", opts.Source).
		Int("workers", workers).
		Bool("convert", opts.Convert).
		Msg("starting extraction")

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan job, readBatchSize)
	results := make(chan result, readBatchSize)

	// Producer: reader -> jobs
	var recordsRead int64
	var readDur time.Duration
	g.Go(func() error {
		defer close(jobs)
		readStart := time.Now()
		buf := make([]model.Record, readBatchSize)
		var seq int64
		defer func() { recordsRead = seq }()

		for {
			n, readErr := src.Read(buf)
			for i := 0; i < n; i++ {
				select {
				case jobs <- job{seq: seq, rec: buf[i]}:
					seq++
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				return &PipelineError{Phase: "read", Err: fmt.Errorf("read at record %d: %w", seq, readErr)}
			}
		}
		readDur = time.Since(readStart)
		return nil
	})

	// Workers: jobs -> results
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				r := result{seq: j.seq, findings: opts.findings(j.rec)}
				select {
				case results <- r:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	var waitErr error
	go func() {
		waitErr = g.Wait()
		close(results)
	}()

	// Collector: restore input order before emitting.
	pending := make(map[int64][]model.Finding)
	var next int64
	var emitErr error
	for r := range results {
		if emitErr != nil {
			continue
		}
		pending[r.seq] = r.findings
		for emitErr == nil {
			fs, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			for _, f := range fs {
				summary.Matches++
				summary.ByPattern[f.Pattern]++
				if opts.Convert {
					if f.Unrecognized() {
						summary.Unrecognized++
						log.Debug().Str("record", f.RecordID).Str("text", f.Text).Str("error", f.Err).Msg("unrecognized date")
					} else {
						summary.Converted++
					}
				}
				if err := sink(f); err != nil {
					emitErr = err
					cancel()
					break
				}
			}
		}
	}
	summary.RecordsRead = recordsRead
	summary.DurationRead = readDur
	summary.Duration = time.Since(start)

	if emitErr != nil {
		return nil, &PipelineError{Phase: "emit", Err: emitErr}
	}
	if err := parent.Err(); err != nil {
		return nil, &PipelineError{Phase: "read", Err: err}
	}
	if waitErr != nil {
		var pe *PipelineError
		if errors.As(waitErr, &pe) {
			return nil, pe
		}
		return nil, &PipelineError{Phase: "read", Err: waitErr}
	}

	log.Info().
		Int64("records_read", summary.RecordsRead).
		Int64("matches", summary.Matches).
		Int64("converted", summary.Converted).
		Int64("unrecognized", summary.Unrecognized).
		Str("duration", summary.Duration.String()).
		Msg("extraction complete")

	return summary, nil
}

// findings scans one record. Conversion failures are recorded on the finding.
func (o Options) findings(rec model.Record) []model.Finding {
	var out []model.Finding
	for m := range o.Scanner.FindDates(rec.Text) {
		f := model.Finding{
			RecordID: rec.ID,
			Start:    m.Start,
			End:      m.End,
			Text:     m.Text,
			Pattern:  m.Pattern,
		}
		if o.Convert {
			res, err := o.Normalizer.Parse(m.Text, o.Now, o.Local)
			if err != nil {
				f.Err = err.Error()
			} else {
				f.Local = normalize.Format(res.Instant, o.Local)
				f.Grammar = res.Grammar
			}
		}
		out = append(out, f)
	}
	return out
}
