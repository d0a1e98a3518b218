package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with errors.Is().
var (
	// ErrNoInput is returned when there is no flow export to analyze.
	ErrNoInput = errors.New("no input specified: provide a flow export path")

	// ErrInvalidFormat is returned for an output format other than markdown or json.
	ErrInvalidFormat = errors.New("invalid format: must be \"markdown\" or \"json\"")

	// ErrInvalidLanguage is returned when the language is not a valid BCP 47 tag.
	ErrInvalidLanguage = errors.New("invalid language: must be a BCP 47 tag such as \"en\" or \"zh-TW\"")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingOutputs is returned when both --output and --output-dir are specified.
	ErrConflictingOutputs = errors.New("conflicting outputs: --output and --output-dir cannot be used together")

	// ErrOutputFileWithMultipleInputs is returned when --output is used with
	// more than one flow export.
	ErrOutputFileWithMultipleInputs = errors.New("--output accepts a single input: use --output-dir for several exports")
)
