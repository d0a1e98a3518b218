// Package model defines the core data structures used throughout flowreport.
//
// This package contains the following main types:
//   - Node: One element of a Node-RED flow export with lookup-with-default accessors
//   - Document: The indexed export (nodes by type, page and group lookups)
//   - Classifier: Sorts function nodes into a fixed set of categories by name
//   - Summary: A serializable digest of one analysis, stored in history
//   - Diff: The difference between two summaries
//   - Analysis: The state carried through the analysis pipeline
//
// The loader, pipeline, report and database packages all import these types;
// model imports none of them.
//
// Nodes are not decoded into fixed structs. Every field is read through an
// accessor that substitutes a documented default when the key is absent.
package model
