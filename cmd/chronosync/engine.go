package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/chronosync/internal/exitcode"
	"github.com/gyeh/chronosync/internal/logging"
	"github.com/gyeh/chronosync/internal/normalize"
	"github.com/gyeh/chronosync/internal/scan"
	"github.com/gyeh/chronosync/internal/tzabbr"
)

// engine is the immutable scanner/normalizer pair built from cfg.
type engine struct {
	log     zerolog.Logger
	zones   *tzabbr.Table
	scanner *scan.Scanner
	norm    *normalize.Normalizer
	local   *time.Location
}

// setup builds the logger and engine, exiting on configuration errors.
func setup() *engine {
	log, err := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronosync: %v\n", err)
		os.Exit(exitcode.UsageError)
	}

	if cfg.ConfigPath != "" {
		err = cfg.LoadFromFile(cfg.ConfigPath)
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.ConfigError)
	}

	// Validate has already checked these.
	local, _ := cfg.Location()
	order, _ := cfg.Order()

	zones, skipped, err := cfg.ZoneTable()
	if err != nil {
		log.Error().Err(err).Msg("zone table")
		os.Exit(exitcode.ConfigError)
	}
	if len(skipped) > 0 {
		log.Warn().Strs("abbreviations", skipped).Msg("library zones skipped (unknown or ambiguous)")
	}
	log.Debug().
		Str("zone", local.String()).
		Str("numeric_order", order.String()).
		Int("abbreviations", zones.Len()).
		Msg("engine ready")

	return &engine{
		log:     log,
		zones:   zones,
		scanner: scan.New(zones),
		norm:    normalize.New(zones, normalize.WithOrder(order), normalize.WithLogger(log)),
		local:   local,
	}
}
