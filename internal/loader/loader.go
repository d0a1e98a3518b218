package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/nao1215/flowreport/internal/model"
)

// Magic numbers of the supported compressed formats.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Export is a loaded flow export.
type Export struct {
	// Path is the file the export was read from.
	Path string

	// Raw is the decompressed file content.
	Raw []byte

	// Document is the indexed export.
	Document *model.Document
}

// Load reads, decodes and indexes the flow export at path.
// The whole file is read into memory; nothing is streamed.
func Load(path string) (*Export, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	nodes, err := Decode(path, raw)
	if err != nil {
		return nil, err
	}

	return &Export{
		Path:     path,
		Raw:      raw,
		Document: model.NewDocument(nodes),
	}, nil
}

// ReadFile reads the file at path and decompresses it when it starts with
// a gzip or zstd magic number.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided export path is intentional
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	data, err = decompress(data)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return data, nil
}

// Decode decodes a flow export. The path is only used in error messages.
// JSON text must be UTF-8; invalid bytes are a ParseError rather than
// being replaced with U+FFFD.
func Decode(path string, data []byte) ([]model.Node, error) {
	if !utf8.Valid(data) {
		return nil, &ParseError{Path: path, Offset: invalidUTF8Offset(data), Err: errInvalidUTF8}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var top any
	if err := dec.Decode(&top); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Err: errors.New("empty document")}
		}
		return nil, newParseError(path, err)
	}

	// Only whitespace may follow the top-level value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{
			Path:   path,
			Offset: dec.InputOffset(),
			Err:    errors.New("unexpected data after top-level value"),
		}
	}

	items, ok := top.([]any)
	if !ok {
		return nil, &FormatError{
			Path:   path,
			Index:  -1,
			Reason: fmt.Sprintf("top-level value is %s, not an array", jsonKind(top)),
		}
	}

	nodes := make([]model.Node, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &FormatError{
				Path:   path,
				Index:  i,
				Reason: fmt.Sprintf("%s is not an object", jsonKind(item)),
			}
		}
		nodes[i] = model.Node(obj)
	}

	return nodes, nil
}

var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// invalidUTF8Offset returns the byte offset of the first invalid sequence.
func invalidUTF8Offset(data []byte) int64 {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return int64(i)
		}
		i += size
	}
	return 0
}

func newParseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Offset = syntaxErr.Offset
	}
	return pe
}

func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer r.Close()

		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("decompressing gzip: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, zstdMagic):
		decoder, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer decoder.Close()

		out, err := io.ReadAll(decoder)
		if err != nil {
			return nil, fmt.Errorf("decompressing zstd: %w", err)
		}
		return out, nil
	}

	return data, nil
}

// jsonKind names the JSON kind of a decoded value for error messages.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
