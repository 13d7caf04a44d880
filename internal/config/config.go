package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
//
// Design decision: defaults live in documented constants rather than
// mutable package-level variables. Callers that want different behavior
// pass explicit values; nothing in the package mutates these.
const (
	// DefaultTimeout is the fixed per-request timeout applied to both
	// source-page fetches and link probes. 10 seconds is generous enough
	// for slow servers while keeping a full scan bounded.
	DefaultTimeout = 10 * time.Second

	// DefaultOutputPath is the report file written when no output path
	// is given on the command line.
	DefaultOutputPath = "links.md"

	// DefaultConcurrency is the number of link probes in flight at once.
	// The default of 1 keeps execution strictly sequential: one
	// outstanding HTTP request at a time. Larger values bound a worker
	// pool but never change per-source record order.
	DefaultConcurrency = 1

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB covers any reasonable HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies linkscan in HTTP requests. A
	// descriptive User-Agent lets operators recognize scanner traffic
	// in their logs.
	DefaultUserAgent = "linkscan/1.0 (+https://github.com/hasu-dev/linkscan)"

	// DefaultHistoryLimit is the number of past scans listed by the
	// history command when no limit is given.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "linkscan"
)

// DefaultSourceURLs returns the source pages scanned when none are given
// on the command line. A fresh slice is returned on each call so callers
// can modify it freely.
func DefaultSourceURLs() []string {
	return []string{
		"https://www.uni-giessen.de/ub/de/forlehr/fdm/wissenswertes/allgemein",
		"https://www.uni-giessen.de/ub/de/forlehr/fdm/wissenswertes/personenbezogene-daten",
	}
}

// Config holds all options for one scan run. It is populated from CLI
// flags and passed through the application via dependency injection,
// never read from global state.
type Config struct {
	// Sources are the page URLs to scan for outbound links, in the
	// order they will be processed. May be empty, which produces a
	// header-only report.
	Sources []string

	// OutputPath is the report file path. Parent directories are
	// created as needed; an existing file is overwritten.
	OutputPath string

	// Timeout is the per-request timeout for every HTTP call.
	Timeout time.Duration

	// Concurrency is the maximum number of link probes in flight.
	// 1 means strictly sequential execution.
	Concurrency int

	// JSONReport switches the output file to JSON instead of markdown.
	JSONReport bool

	// ConfigFilePath is an explicit config file location. Empty means
	// search for .linkscan in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps how many response bytes are read per request.
	MaxBodySize int64

	// SaveHistory controls whether the run is recorded in the local
	// scan history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	HistoryDir string

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor instead of zero values, because most
// defaults are non-zero and the constructor doubles as documentation of
// what they are.
func NewConfig() *Config {
	return &Config{
		OutputPath:  DefaultOutputPath,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for linkscan.
// On Linux: ~/.local/share/linkscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any network activity.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.OutputPath == "" {
		return ErrNoOutputPath
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
