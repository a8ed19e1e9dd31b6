package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/chronosync/internal/normalize"
	"github.com/gyeh/chronosync/internal/textsource"
	"github.com/gyeh/chronosync/internal/tzabbr"
)

// Config holds all runtime configuration for a chronosync run.
type Config struct {
	FilePath     string
	ConfigPath   string
	LogFormat    string // "text" or "json"
	LogLevel     string
	LocalZone    string // IANA name; empty means the system zone
	NumericOrder string // "day-first" or "month-first"
	Zones        map[string]string
	LibraryZones []string
	Workers      int
	Convert      bool
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	LocalZone    string            `yaml:"local_zone"`
	NumericOrder string            `yaml:"numeric_order"`
	Zones        map[string]string `yaml:"zones"`
	LibraryZones []string          `yaml:"library_zones"`
	Workers      int               `yaml:"workers"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set (from flags) win over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.LocalZone == "" {
		c.LocalZone = yc.LocalZone
	}
	if c.NumericOrder == "" {
		c.NumericOrder = yc.NumericOrder
	}
	if c.Workers == 0 {
		c.Workers = yc.Workers
	}
	c.LibraryZones = append(c.LibraryZones, yc.LibraryZones...)

	// Compare abbreviations case-insensitively so "--tz cet=..." still wins
	// over a file entry spelled "CET".
	zones, err := upperKeys(c.Zones)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	fileZones, err := upperKeys(yc.Zones)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	for abbr, off := range fileZones {
		if _, ok := zones[abbr]; !ok {
			zones[abbr] = off
		}
	}
	c.Zones = zones
	return c.Validate()
}

func upperKeys(m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		key := strings.ToUpper(strings.TrimSpace(k))
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("zone %s given more than once", key)
		}
		out[key] = v
	}
	return out, nil
}

// Validate checks that the zone, numeric order and zone table are usable.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Order(); err != nil {
		return err
	}
	if _, err := tzabbr.New(c.Zones); err != nil {
		return fmt.Errorf("zones: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// ValidateWithFile checks the config and that --file points at something readable.
func (c *Config) ValidateWithFile() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if c.FilePath == textsource.Stdin {
		return nil
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// Location returns the viewer's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.LocalZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.LocalZone)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", c.LocalZone, err)
	}
	return loc, nil
}

// Order returns the configured numeric date order.
func (c *Config) Order() (normalize.NumericOrder, error) {
	return normalize.ParseNumericOrder(c.NumericOrder)
}

// ZoneTable builds the effective abbreviation table: the defaults, then
// library_zones resolved through go-timezone, then explicit zones. Later
// sources win. skipped lists library abbreviations that could not be used.
func (c *Config) ZoneTable() (table *tzabbr.Table, skipped []string, err error) {
	table = tzabbr.Default()
	if len(c.LibraryZones) > 0 {
		var lib *tzabbr.Table
		lib, skipped = tzabbr.FromLibrary(c.LibraryZones...)
		table = table.Merge(lib)
	}
	custom, err := tzabbr.New(c.Zones)
	if err != nil {
		return nil, nil, fmt.Errorf("zones: %w", err)
	}
	return table.Merge(custom), skipped, nil
}
