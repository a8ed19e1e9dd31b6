package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyeh/chronosync/internal/tzabbr"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Print the effective zone abbreviation table",
	RunE:  runZones,
}

func init() {
	rootCmd.AddCommand(zonesCmd)
}

func runZones(cmd *cobra.Command, args []string) error {
	e := setup()

	for _, abbr := range e.zones.Abbreviations() {
		off, _ := e.zones.Lookup(abbr)
		fmt.Printf("%-6s %s\n", abbr, tzabbr.FormatOffset(off))
	}
	fmt.Printf("\nLocal zone: %s\n", e.local)
	return nil
}
