// Package database keeps the history of flow analyses in SQLite.
//
// Each analysis is stored as the JSON of its model.Summary together with the
// source key, fingerprint and time used for listing. The compare command reads
// the latest summary of an export from here to diff it against a fresh one.
//
// modernc.org/sqlite is used so the binary stays CGO-free. The database is a
// single file, flowreport.db, opened with one connection and WAL enabled.
package database
