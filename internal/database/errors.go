package database

import "errors"

// ErrNoDatabase is returned by Open when the history database does not exist
// and Options.CreateIfNotExists is false.
var ErrNoDatabase = errors.New("history database does not exist")
