package loader

import "fmt"

// IOError is returned when a flow export cannot be opened, read or decompressed.
type IOError struct {
	// Path is the export path.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read flow export %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a flow export is not valid JSON.
type ParseError struct {
	// Path is the export path.
	Path string

	// Offset is the byte offset of the error when the decoder reports one.
	Offset int64

	// Err is the underlying decoder error.
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid JSON in %s at offset %d: %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError is returned when valid JSON does not have the shape of a flow export.
type FormatError struct {
	// Path is the export path.
	Path string

	// Index is the position of the offending array element,
	// or -1 when the top-level value itself is wrong.
	Index int

	// Reason describes the problem.
	Reason string
}

// Error implements error.
func (e *FormatError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("unexpected flow export format in %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("unexpected flow export format in %s: element %d: %s", e.Path, e.Index, e.Reason)
}
