// Package pipeline runs the analysis of a flow export as a sequence of steps.
//
// The default pipeline loads the export, summarizes it, renders the report
// into memory and then writes it to its destination, optionally recording
// the summary in the history database. Rendering completes before anything
// is written, so a failing export never produces a partial report.
//
// BatchProcessor runs one pipeline per export with bounded concurrency
// using errgroup and returns the analyses in input order.
package pipeline
