package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the working directory.
const DefaultConfigFile = ".flowreport"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads the YAML configuration file at path.
//
// Unknown keys are rejected so a misspelled "outputdir" does not silently
// fall back to stdout. An empty file yields an empty File.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &file, nil
}

// FindConfigFile returns the configuration file to load, or "" when there is none.
//
// An explicit configPath is the only candidate when given. Otherwise
// .flowreport in the working directory wins over config.yaml in XDGConfigDir.
func FindConfigFile(configPath string) string {
	for _, candidate := range configCandidates(configPath) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func configCandidates(configPath string) []string {
	if configPath != "" {
		return []string{configPath}
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	return append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
}
