package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/chronosync/internal/annotate"
	"github.com/gyeh/chronosync/internal/exitcode"
	"github.com/gyeh/chronosync/internal/model"
	"github.com/gyeh/chronosync/internal/textsource"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Print text with each date followed by its local time",
	RunE:  runAnnotate,
}

var annotateInline bool

func init() {
	f := annotateCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to .txt or .parquet file, or - for stdin (required)")
	f.BoolVar(&annotateInline, "inline", false, "Replace dates instead of appending [local time]")
	_ = annotateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	e := setup()
	log := e.log

	if err := cfg.ValidateWithFile(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	src, err := textsource.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open input")
		os.Exit(exitcode.InputError)
	}
	defer src.Close()

	style := annotate.Bracketed
	if annotateInline {
		style = annotate.Inline
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	_, isParquet := src.(*textsource.ParquetReader)
	now := time.Now()
	buf := make([]model.Record, 64)
	for {
		n, readErr := src.Read(buf)
		for i := 0; i < n; i++ {
			if isParquet {
				fmt.Fprintf(out, "# %s\n", buf[i].ID)
			}
			text := annotate.Annotate(buf[i].Text, e.scanner, e.norm, now, e.local, style)
			out.WriteString(text)
			if !strings.HasSuffix(text, "\n") {
				out.WriteString("\n")
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Flush()
			log.Error().Err(readErr).Msg("read failed")
			os.Exit(exitcode.InputError)
		}
	}
	return nil
}
