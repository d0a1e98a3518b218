// Package config provides configuration structures and utilities for flowreport.
// It defines the defaults for input, output format and report language, the
// optional YAML configuration file, and the XDG directories used for the
// configuration file and the history database.
package config
