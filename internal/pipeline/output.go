package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Output is the destination of rendered reports.
type Output interface {
	// Write stores the report rendered for source and returns
	// a description of where it went, for logging.
	Write(source string, report []byte) (string, error)
}

// WriterOutput writes every report to one io.Writer, typically stdout.
// Reports are written whole, so concurrent pipelines never interleave.
type WriterOutput struct {
	mu   sync.Mutex
	w    io.Writer
	name string
}

// NewWriterOutput creates an output writing to w. name describes w in logs.
func NewWriterOutput(w io.Writer, name string) *WriterOutput {
	return &WriterOutput{w: w, name: name}
}

// Write implements Output.
func (o *WriterOutput) Write(_ string, report []byte) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.w.Write(report); err != nil {
		return "", err
	}
	return o.name, nil
}

// FileOutput writes the report to a single file, creating parent directories.
type FileOutput struct {
	path string
}

// NewFileOutput creates an output writing to path.
func NewFileOutput(path string) *FileOutput {
	return &FileOutput{path: path}
}

// Write implements Output.
func (o *FileOutput) Write(_ string, report []byte) (string, error) {
	if err := writeReportFile(o.path, report); err != nil {
		return "", err
	}
	return o.path, nil
}

// DirOutput writes one report file per export into a directory.
// File names are assigned up front by ReportFileNames so they do not
// depend on the order in which concurrent pipelines finish.
type DirOutput struct {
	dir   string
	names map[string]string
}

// NewDirOutput creates an output writing the exports in sources into dir.
func NewDirOutput(dir string, sources []string, ext string) *DirOutput {
	return &DirOutput{
		dir:   dir,
		names: ReportFileNames(sources, ext),
	}
}

// Write implements Output.
func (o *DirOutput) Write(source string, report []byte) (string, error) {
	name, ok := o.names[source]
	if !ok {
		return "", fmt.Errorf("no report file name assigned to %s", source)
	}

	path := filepath.Join(o.dir, name)
	if err := writeReportFile(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// ReportFileNames maps each source to a report file name in a flat directory.
// The name is the source's base name with its extensions replaced by ext.
// Sources sharing a base name are numbered in input order: flows.md, flows-2.md.
func ReportFileNames(sources []string, ext string) map[string]string {
	names := make(map[string]string, len(sources))
	used := make(map[string]struct{}, len(sources))

	for _, source := range sources {
		if _, ok := names[source]; ok {
			continue
		}

		stem := reportStem(source)
		name := stem + ext
		for n := 2; ; n++ {
			if _, taken := used[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}

		used[name] = struct{}{}
		names[source] = name
	}

	return names
}

// reportStem strips every extension, so flows.json.gz becomes flows.
func reportStem(source string) string {
	base := filepath.Base(source)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

func writeReportFile(path string, report []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, report, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
