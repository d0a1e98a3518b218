package config

// File represents the structure of the .flowreport configuration file.
// Every field is optional; zero values leave the defaults untouched.
type File struct {
	// Input is the flow export analyzed when no path is given on the command line.
	Input string `yaml:"input,omitempty"`

	// Format is "markdown" or "json".
	Format string `yaml:"format,omitempty"`

	// Language is a BCP 47 tag for the report language ("en", "zh-TW").
	Language string `yaml:"language,omitempty"`

	// OutputDir writes one report per export into this directory.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Batch is the number of exports analyzed concurrently with OutputDir.
	Batch int `yaml:"batch,omitempty"`

	// Chart adds a function category pie chart to Markdown reports.
	Chart *bool `yaml:"chart,omitempty"`

	// History records every analysis in the history database.
	History *bool `yaml:"history,omitempty"`
}
