package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

// Format is the report output format.
type Format string

const (
	// FormatMarkdown writes the human-readable Markdown report.
	FormatMarkdown Format = "markdown"

	// FormatJSON writes the analysis summary as JSON.
	FormatJSON Format = "json"
)

// Default configuration values.
const (
	// DefaultInput is the flow export read when no input is given.
	// It is the file name Node-RED uses for its flow storage.
	DefaultInput = "flows.json"

	// DefaultFormat is the report format when none is configured.
	DefaultFormat = FormatMarkdown

	// DefaultLanguage is the report language when none is configured.
	DefaultLanguage = "en"

	// DefaultBatchSize is the number of exports analyzed concurrently
	// when writing one report per export into an output directory.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "flowreport"
)

// Config holds all configuration options for flowreport.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept in global state.
type Config struct {
	// Inputs are the flow export paths or glob patterns to analyze.
	Inputs []string

	// Format selects Markdown or JSON output.
	Format Format

	// Language is a BCP 47 tag selecting the report language.
	// Unsupported languages fall back to English.
	Language string

	// OutputFile writes the report to a file instead of stdout.
	// Only valid with a single input.
	OutputFile string

	// OutputDir writes one report per input into this directory.
	OutputDir string

	// BatchSize is the number of exports analyzed concurrently
	// when OutputDir is set.
	BatchSize int

	// CategoryChart adds a mermaid pie chart of function categories
	// to the Markdown report.
	CategoryChart bool

	// SaveHistory records each analysis summary in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file that was loaded, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Inputs:    []string{DefaultInput},
		Format:    DefaultFormat,
		Language:  DefaultLanguage,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
	}
}

// Apply overrides configuration values with the non-zero values of a config file.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Input != "" {
		c.Inputs = []string{f.Input}
	}
	if f.Format != "" {
		c.Format = Format(f.Format)
	}
	if f.Language != "" {
		c.Language = f.Language
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.Batch > 0 {
		c.BatchSize = f.Batch
	}
	if f.Chart != nil {
		c.CategoryChart = *f.Chart
	}
	if f.History != nil {
		c.SaveHistory = *f.History
	}
}

// XDGDataDir returns the XDG data directory for flowreport.
// On Linux: ~/.local/share/flowreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for flowreport.
// On Linux: ~/.config/flowreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	switch c.Format {
	case FormatMarkdown, FormatJSON:
	default:
		return ErrInvalidFormat
	}

	if _, err := language.Parse(c.Language); err != nil {
		return ErrInvalidLanguage
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.OutputFile != "" && c.OutputDir != "" {
		return ErrConflictingOutputs
	}

	return nil
}
