package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/chronosync/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "chronosync",
	Short: "Find dates in text and show them in local time",
	Long: "Scans text for date/time expressions (long-form, ISO-8601, numeric) and renders each " +
		"one in the viewer's timezone, e.g. \"October 15, 2025 at 12:15:00 AM EDT\".",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.ConfigPath, "config", "", "Path to YAML config file")
	pf.StringVar(&cfg.LocalZone, "zone", os.Getenv("CHRONOSYNC_ZONE"), "IANA zone to render dates in (or set CHRONOSYNC_ZONE; default: system zone)")
	pf.StringVar(&cfg.NumericOrder, "numeric-order", "", "How to read 01/02/2025: day-first (default) or month-first")
	pf.StringToStringVar(&cfg.Zones, "tz", nil, "Extra zone abbreviations, e.g. --tz CET=+01:00")
}
