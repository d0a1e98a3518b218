// Package loader reads Node-RED flow exports from disk.
//
// A flow export is a JSON array of objects. Load reads the whole file into
// memory, decompresses it when it is gzip or zstd compressed, decodes it and
// indexes it into a model.Document.
//
// Failures are reported with three error types so callers can tell them apart
// with errors.As:
//   - IOError: the file cannot be opened, read or decompressed
//   - ParseError: the content is not valid JSON
//   - FormatError: the top level is not an array, or an element is not an object
//
// Nothing else about the nodes is validated. Unknown node types and missing
// fields are the report's concern, not the loader's.
package loader
