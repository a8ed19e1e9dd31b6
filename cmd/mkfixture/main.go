// mkfixture builds a small Parquet dataset of text records from a plain text
// file, one record per non-blank line. Lines are picked so that every scanner
// pattern is represented before filler lines are added.
// Usage: go run ./cmd/mkfixture --in testdata/posts.txt --out testdata/posts.parquet --rows 200
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/chronosync/internal/model"
	"github.com/gyeh/chronosync/internal/scan"
	"github.com/gyeh/chronosync/internal/tzabbr"
)

func main() {
	in := flag.String("in", "testdata/posts.txt", "input text file")
	out := flag.String("out", "testdata/posts.parquet", "output parquet")
	maxRows := flag.Int("rows", 200, "max records to output")
	perPattern := flag.Int("per-pattern", 30, "records to keep per scanner pattern")
	checkOnly := flag.Bool("check", false, "only print stats of --out, don't write")
	flag.Parse()

	sc := scan.New(tzabbr.Default())

	if *checkOnly {
		if err := check(*out, sc); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Pass 1: bucket lines by the first pattern they contain.
	buckets := make(map[string][]model.Record)
	var general []model.Record
	lines := bufio.NewScanner(f)
	lines.Buffer(make([]byte, 64*1024), 1<<20)
	lineNum := 0
	for lines.Scan() {
		lineNum++
		text := strings.TrimSpace(lines.Text())
		if text == "" {
			continue
		}
		rec := model.Record{ID: fmt.Sprintf("line-%d", lineNum), Text: text}
		matches := sc.All(text)
		if len(matches) == 0 {
			if len(general) < *maxRows {
				general = append(general, rec)
			}
			continue
		}
		p := matches[0].Pattern
		if len(buckets[p]) < *perPattern {
			buckets[p] = append(buckets[p], rec)
		}
	}
	if err := lines.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Scanned %d lines\n", lineNum)

	// Merge buckets in pattern priority order, then filler.
	var selected []model.Record
	for _, p := range sc.Patterns() {
		for _, rec := range buckets[p.Name] {
			if len(selected) >= *maxRows {
				break
			}
			selected = append(selected, rec)
		}
	}
	for _, rec := range general {
		if len(selected) >= *maxRows {
			break
		}
		selected = append(selected, rec)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	writer := goparquet.NewGenericWriter[model.Record](outFile)
	if _, err := writer.Write(selected); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d records to %s\n", len(selected), *out)
	fmt.Println("Pattern distribution:")
	for _, p := range sc.Patterns() {
		if c := len(buckets[p.Name]); c > 0 {
			fmt.Printf("  %-10s %d\n", p.Name, c)
		}
	}
	fmt.Printf("  %-10s %d\n", "no date", len(general))
}

// check prints record and match counts for an existing dataset.
func check(path string, sc *scan.Scanner) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return err
	}
	pf, err := goparquet.OpenFile(f, stat.Size())
	if err != nil {
		return fmt.Errorf("open parquet: %w", err)
	}

	reader := goparquet.NewGenericReader[model.Record](pf)
	defer reader.Close()

	buf := make([]model.Record, 1024)
	total, matches := 0, 0
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			total++
			matches += len(sc.All(buf[i].Text))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	fmt.Printf("Records: %d, Matches: %d\n", total, matches)
	return nil
}
