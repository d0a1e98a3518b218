package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/nao1215/flowreport/internal/model"
)

const sampleFlow = `[
  {"id": "p1", "type": "ui-page", "name": "Home", "path": "/home"},
  {"id": "f1", "type": "function", "name": "SQL 匯出", "func": "return msg;", "outputs": 2},
  {"id": "m1", "type": "mqtt in", "topic": "devices/+/power"}
]`

// writeFile writes data to a file in a temporary directory and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// TestLoad tests loading valid exports.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads plain JSON", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "flows.json", []byte(sampleFlow))
		export, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc := export.Document
		if doc.Len() != 3 {
			t.Errorf("expected 3 nodes, got %d", doc.Len())
		}
		if doc.CountOf(model.TypeFunction) != 1 {
			t.Errorf("expected 1 function, got %d", doc.CountOf(model.TypeFunction))
		}
		if got := doc.NodesOf(model.TypeFunction)[0].Text("outputs"); got != "2" {
			t.Errorf("expected outputs 2, got %q", got)
		}
		if !bytes.Equal(export.Raw, []byte(sampleFlow)) {
			t.Error("expected raw content to be kept")
		}
	})

	t.Run("loads empty array", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "flows.json", []byte("[]\n"))
		export, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if export.Document.Len() != 0 {
			t.Errorf("expected no nodes, got %d", export.Document.Len())
		}
	})

	t.Run("loads gzip compressed export", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write([]byte(sampleFlow)); err != nil {
			t.Fatalf("failed to compress: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("failed to close gzip writer: %v", err)
		}

		path := writeFile(t, "flows.json.gz", buf.Bytes())
		export, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if export.Document.Len() != 3 {
			t.Errorf("expected 3 nodes, got %d", export.Document.Len())
		}
		if !bytes.Equal(export.Raw, []byte(sampleFlow)) {
			t.Error("expected raw content to be decompressed")
		}
	})

	t.Run("loads zstd compressed export", func(t *testing.T) {
		t.Parallel()

		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			t.Fatalf("failed to create zstd encoder: %v", err)
		}
		compressed := encoder.EncodeAll([]byte(sampleFlow), nil)
		_ = encoder.Close()

		path := writeFile(t, "flows.json.zst", compressed)
		export, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if export.Document.Len() != 3 {
			t.Errorf("expected 3 nodes, got %d", export.Document.Len())
		}
	})
}

// TestLoadErrors tests the error taxonomy.
func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file is IOError", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("expected IOError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("expected IOError to wrap os.ErrNotExist")
		}
	})

	t.Run("truncated gzip is IOError", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "broken.gz", []byte{0x1f, 0x8b, 0x08})
		_, err := Load(path)
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("expected IOError, got %v", err)
		}
	})

	testCases := []struct {
		name    string
		content string
	}{
		{"malformed JSON", `[{"id": "a",]`},
		{"empty file", ""},
		{"whitespace only", "  \n"},
		{"trailing data", `[] []`},
		{"unterminated array", `[{"id": "a"}`},
		{"invalid UTF-8 in a string", "[{\"type\":\"function\",\"name\":\"bad\xff\"}]"},
		{"Latin-1 encoded name", "[{\"name\":\"caf\xe9\"}]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name+" is ParseError", func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "flows.json", []byte(tc.content))
			_, err := Load(path)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Path != path {
				t.Errorf("expected path %q, got %q", path, parseErr.Path)
			}
		})
	}

	formatCases := []struct {
		name      string
		content   string
		wantIndex int
	}{
		{"top-level object", `{"type": "function"}`, -1},
		{"top-level string", `"flows"`, -1},
		{"top-level null", `null`, -1},
		{"number element", `[{"id": "a"}, 42]`, 1},
		{"null element", `[null]`, 0},
		{"array element", `[{}, {}, []]`, 2},
	}

	for _, tc := range formatCases {
		t.Run(tc.name+" is FormatError", func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "flows.json", []byte(tc.content))
			_, err := Load(path)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			if formatErr.Index != tc.wantIndex {
				t.Errorf("expected index %d, got %d", tc.wantIndex, formatErr.Index)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	t.Parallel()

	data := []byte("[{\"type\":\"function\",\"name\":\"bad\xff\"}]")
	nodes, err := Decode("flows.json", data)
	if nodes != nil {
		t.Errorf("expected no nodes, got %v", nodes)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if want := int64(bytes.IndexByte(data, 0xff)); parseErr.Offset != want {
		t.Errorf("expected offset %d, got %d", want, parseErr.Offset)
	}
	if !errors.Is(err, errInvalidUTF8) {
		t.Errorf("expected errInvalidUTF8, got %v", err)
	}
}

func TestDecodeMultibyteUTF8(t *testing.T) {
	t.Parallel()

	nodes, err := Decode("flows.json", []byte(`[{"type":"function","name":"SQL 匯出"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := nodes[0].Name(); got != "SQL 匯出" {
		t.Errorf("expected name %q, got %q", "SQL 匯出", got)
	}
}

// TestErrorMessages tests that error messages name the file.
func TestErrorMessages(t *testing.T) {
	t.Parallel()

	errs := []error{
		&IOError{Path: "a.json", Err: os.ErrNotExist},
		&ParseError{Path: "a.json", Offset: 3, Err: errors.New("bad")},
		&ParseError{Path: "a.json", Err: errors.New("bad")},
		&FormatError{Path: "a.json", Index: -1, Reason: "bad"},
		&FormatError{Path: "a.json", Index: 2, Reason: "bad"},
	}

	for _, err := range errs {
		if !bytes.Contains([]byte(err.Error()), []byte("a.json")) {
			t.Errorf("expected %q to mention the path", err.Error())
		}
	}
}
