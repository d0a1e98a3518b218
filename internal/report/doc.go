// Package report renders analyzed Node-RED flow exports.
//
// This package contains writers for different output formats:
//   - MarkdownWriter: the human-readable flow report, in English or Traditional Chinese
//   - JSONWriter: the analysis summary for tool integration
//   - DiffWriter: the comparison of two exports as text, Markdown or JSON
//
// Report writing is kept apart from the data structures in the model package,
// so a new output format never touches the analysis itself.
package report
