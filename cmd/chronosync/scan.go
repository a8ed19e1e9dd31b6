package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/chronosync/internal/exitcode"
	"github.com/gyeh/chronosync/internal/extract"
	"github.com/gyeh/chronosync/internal/model"
	"github.com/gyeh/chronosync/internal/textsource"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find dates in a text or Parquet file and print them as JSON lines",
	RunE:  runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to .txt or .parquet file, or - for stdin (required)")
	f.BoolVar(&cfg.Convert, "convert", false, "Also render each date in the local zone")
	f.IntVar(&cfg.Workers, "workers", 0, "Scanner goroutines (default: GOMAXPROCS)")
	_ = scanCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	e := setup()
	log := e.log

	if err := cfg.ValidateWithFile(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var sha string
	if cfg.FilePath != textsource.Stdin {
		var err error
		if sha, err = textsource.FileHash(cfg.FilePath); err != nil {
			log.Error().Err(err).Msg("failed to hash file")
			os.Exit(exitcode.InputError)
		}
	}

	src, err := textsource.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open input")
		os.Exit(exitcode.InputError)
	}
	defer src.Close()

	out := bufio.NewWriter(os.Stdout)
	enc := json.NewEncoder(out)

	summary, err := extract.Run(cmd.Context(), src, log, extract.Options{
		Scanner:      e.scanner,
		Normalizer:   e.norm,
		Convert:      cfg.Convert,
		Workers:      cfg.Workers,
		Local:        e.local,
		Source:       cfg.FilePath,
		SourceSHA256: sha,
	}, func(f model.Finding) error {
		return enc.Encode(f)
	})
	flushErr := out.Flush()
	if err != nil {
		var pe *extract.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("scan failed")
			if pe.Phase == "read" {
				os.Exit(exitcode.InputError)
			}
			os.Exit(exitcode.PipelineError)
		}
		log.Error().Err(err).Msg("scan failed")
		os.Exit(exitcode.PipelineError)
	}
	if flushErr != nil {
		log.Error().Err(flushErr).Msg("write output")
		os.Exit(exitcode.PipelineError)
	}

	log.Info().
		Str("sha256", summary.SourceSHA256).
		Interface("by_pattern", summary.ByPattern).
		Msg("scan summary")
	if summary.Unrecognized > 0 {
		os.Exit(exitcode.Unrecognized)
	}
	return nil
}
