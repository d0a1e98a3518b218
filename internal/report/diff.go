package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/flowreport/internal/model"
)

// DiffFormat selects how a DiffWriter renders a comparison.
type DiffFormat int

const (
	// DiffText renders a plain text comparison for the terminal.
	DiffText DiffFormat = iota

	// DiffMarkdown renders the comparison as Markdown.
	DiffMarkdown

	// DiffJSON renders the comparison as indented JSON.
	DiffJSON
)

// Status strings shown at the top of a comparison.
const (
	statusIdentical = "IDENTICAL (same fingerprint)"
	statusUnchanged = "UNCHANGED (no structural changes)"
	statusChanged   = "CHANGED"
)

// DiffWriter renders the difference between two flow exports.
type DiffWriter struct {
	baseWriter
	format DiffFormat
}

// NewDiffWriter creates a DiffWriter that outputs to the given writer.
func NewDiffWriter(output io.Writer, format DiffFormat) *DiffWriter {
	return &DiffWriter{
		baseWriter: newBaseWriter(output),
		format:     format,
	}
}

// Write outputs the comparison in the configured format.
func (w *DiffWriter) Write(d *model.Diff) (int, error) {
	switch w.format {
	case DiffJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return 0, err
		}
		return w.output.Write(append(data, '\n'))
	case DiffMarkdown:
		return w.writeMarkdown(d)
	default:
		return w.writeText(d)
	}
}

func diffStatus(d *model.Diff) string {
	switch {
	case d.Identical:
		return statusIdentical
	case !d.HasChanges():
		return statusUnchanged
	default:
		return statusChanged
	}
}

// writeText writes the comparison as aligned plain text.
func (w *DiffWriter) writeText(d *model.Diff) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Flow Comparison: %s -> %s\n", d.OldSource, d.NewSource)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "\nStatus: %s\n", diffStatus(d))

	if len(d.TypeDeltas) > 0 {
		sb.WriteString("\nNode Types:\n")
		fmt.Fprintf(&sb, "  %-24s  %-8s  %-8s  %-8s\n", "Type", "Old", "New", "Change")
		sb.WriteString("  " + strings.Repeat("-", 54) + "\n")
		for _, t := range d.TypeDeltas {
			fmt.Fprintf(&sb, "  %-24s  %-8d  %-8d  %-8s\n", t.Type, t.Old, t.New, formatDelta(t.Delta()))
		}
	}

	writeTextChanges(&sb, "Pages", d.AddedPages, d.RemovedPages)
	writeTextChanges(&sb, "Endpoints", d.AddedEndpoints, d.RemovedEndpoints)

	if len(d.AddedFunctions)+len(d.RemovedFunctions)+len(d.RecategorizedFunctions)+len(d.ModifiedFunctions) > 0 {
		sb.WriteString("\nFunctions:\n")
		for _, fn := range d.AddedFunctions {
			fmt.Fprintf(&sb, "  [+] %s (%s)\n", fn.Name, fn.Category)
		}
		for _, fn := range d.RemovedFunctions {
			fmt.Fprintf(&sb, "  [-] %s (%s)\n", fn.Name, fn.Category)
		}
		for _, c := range d.RecategorizedFunctions {
			fmt.Fprintf(&sb, "  [~] %s: %s -> %s\n", c.Name, c.Old, c.New)
		}
		for _, fn := range d.ModifiedFunctions {
			fmt.Fprintf(&sb, "  [*] %s: code changed\n", fn.Name)
		}
	}

	return w.output.Write([]byte(sb.String()))
}

func writeTextChanges(sb *strings.Builder, title string, added, removed []string) {
	if len(added)+len(removed) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, v := range added {
		fmt.Fprintf(sb, "  [+] %s\n", v)
	}
	for _, v := range removed {
		fmt.Fprintf(sb, "  [-] %s\n", v)
	}
}

// writeMarkdown writes the comparison as a Markdown document.
func (w *DiffWriter) writeMarkdown(d *model.Diff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Flow Comparison")
	md.PlainText("")
	md.BulletList(
		markdown.Bold("Old")+": "+markdown.Code(d.OldSource),
		markdown.Bold("New")+": "+markdown.Code(d.NewSource),
		markdown.Bold("Status")+": "+diffStatus(d),
	)
	md.PlainText("")

	if len(d.TypeDeltas) > 0 {
		rows := make([][]string, len(d.TypeDeltas))
		for i, t := range d.TypeDeltas {
			rows[i] = []string{
				markdown.Code(t.Type),
				strconv.Itoa(t.Old),
				strconv.Itoa(t.New),
				formatDelta(t.Delta()),
			}
		}

		md.H2("Node Types")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Type", "Old", "New", "Change"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	writeMarkdownList(md, "Added Pages", d.AddedPages)
	writeMarkdownList(md, "Removed Pages", d.RemovedPages)
	writeMarkdownList(md, "Added Endpoints", d.AddedEndpoints)
	writeMarkdownList(md, "Removed Endpoints", d.RemovedEndpoints)
	writeMarkdownList(md, "Added Functions", functionLines(d.AddedFunctions))
	writeMarkdownList(md, "Removed Functions", functionLines(d.RemovedFunctions))

	if len(d.RecategorizedFunctions) > 0 {
		lines := make([]string, len(d.RecategorizedFunctions))
		for i, c := range d.RecategorizedFunctions {
			lines[i] = markdown.Bold(c.Name) + ": " + c.Old.String() + " → " + c.New.String()
		}
		writeMarkdownList(md, "Recategorized Functions", lines)
	}

	if len(d.ModifiedFunctions) > 0 {
		writeMarkdownList(md, "Modified Functions", functionLines(d.ModifiedFunctions))
	}

	return len(md.String()), md.Build()
}

func writeMarkdownList(md *markdown.Markdown, title string, items []string) {
	if len(items) == 0 {
		return
	}
	md.H2f("%s (%d)", title, len(items))
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

func functionLines(functions []model.FunctionRef) []string {
	lines := make([]string, len(functions))
	for i, fn := range functions {
		lines[i] = markdown.Bold(fn.Name) + " (" + fn.Category.String() + ")"
		if fn.ID != "" {
			lines[i] += " " + markdown.Code(fn.ID)
		}
	}
	return lines
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
