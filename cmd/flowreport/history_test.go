package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/flowreport/internal/database"
	"github.com/nao1215/flowreport/internal/model"
)

// recordHistory saves the given summaries into a new history database.
func recordHistory(t *testing.T, summaries ...*model.Summary) (string, []int64) {
	t.Helper()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ids := make([]int64, 0, len(summaries))
	for _, s := range summaries {
		id, err := db.SaveSummary(t.Context(), s)
		if err != nil {
			t.Fatalf("failed to save summary: %v", err)
		}
		ids = append(ids, id)
	}
	return dbDir, ids
}

func TestRunHistory(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	dbDir, ids := recordHistory(t,
		&model.Summary{Source: "flows.json", Fingerprint: "0123456789abcdef0123", AnalyzedAt: at, TotalNodes: 42},
		&model.Summary{Source: "other.json", Fingerprint: "ffff", AnalyzedAt: at, TotalNodes: 7},
	)

	t.Run("lists sources", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := runHistory(t.Context(), dbDir, historyRequest{listSources: true}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		if !strings.Contains(output, "Recorded exports (2)") {
			t.Errorf("unexpected output:\n%s", output)
		}
		for _, source := range []string{"flows.json", "other.json"} {
			if !strings.Contains(output, database.SourceKey(source)) {
				t.Errorf("expected %s in output:\n%s", database.SourceKey(source), output)
			}
		}
	})

	t.Run("lists analyses of a source", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := runHistory(t.Context(), dbDir, historyRequest{source: "flows.json"}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := out.String()
		if !strings.Contains(output, "(1 analyses)") {
			t.Errorf("expected one analysis:\n%s", output)
		}
		if !strings.Contains(output, "0123456789ab ") || strings.Contains(output, "0123456789abc") {
			t.Errorf("expected a shortened fingerprint:\n%s", output)
		}
		if !strings.Contains(output, "42") {
			t.Errorf("expected node count:\n%s", output)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := runHistory(t.Context(), dbDir, historyRequest{source: "missing.json"}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "No analyses recorded for missing.json") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
	})

	t.Run("shows a summary", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := runHistory(t.Context(), dbDir, historyRequest{showID: ids[1]}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var s model.Summary
		if err := json.Unmarshal(out.Bytes(), &s); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out.String())
		}
		if s.Fingerprint != "ffff" || s.TotalNodes != 7 {
			t.Errorf("unexpected summary %+v", s)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		if err := runHistory(t.Context(), dbDir, historyRequest{showID: 999}, &out); err == nil {
			t.Error("expected error for unknown ID")
		}
	})
}

func TestRunHistoryWithoutDatabase(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := runHistory(t.Context(), t.TempDir(), historyRequest{listSources: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No analyses recorded yet.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
