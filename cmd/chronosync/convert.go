package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/chronosync/internal/exitcode"
	"github.com/gyeh/chronosync/internal/normalize"
)

var convertCmd = &cobra.Command{
	Use:   "convert <date>...",
	Short: "Render one or more date strings in the local zone",
	Example: `  chronosync convert "October 14, 2025 at 9:15 PM PDT"
  chronosync --zone Europe/Paris convert 2025-10-15T04:40:00Z 14/10/2025`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var convertVerbose bool

func init() {
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "Show the grammar that matched")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	e := setup()
	now := time.Now()

	failed := 0
	for _, raw := range args {
		res, err := e.norm.Parse(raw, now, e.local)
		if err != nil {
			failed++
			e.log.Warn().Str("input", raw).Str("reason", string(normalize.ReasonOf(err))).Msg("unrecognized date")
			fmt.Println(normalize.UnrecognizedLabel)
			continue
		}
		line := normalize.Format(res.Instant, e.local)
		if convertVerbose {
			line = strings.Join([]string{raw, line, res.Grammar}, "\t")
		}
		fmt.Println(line)
	}

	if failed > 0 {
		os.Exit(exitcode.Unrecognized)
	}
	return nil
}
