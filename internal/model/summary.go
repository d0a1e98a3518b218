package model

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// digestLength is the number of hex characters kept from a function source digest.
const digestLength = 16

// FunctionRef identifies a function node inside a Summary.
type FunctionRef struct {
	// ID is the node id. Functions without an id are keyed by name.
	ID string `json:"id"`

	// Name is the display name, Unnamed when absent.
	Name string `json:"name"`

	// Category is the classifier result for Name.
	Category Category `json:"category"`

	// Digest is a truncated BLAKE3 hash of the function source.
	// Two functions with the same Digest have identical code.
	Digest string `json:"digest"`
}

// key returns the identity used to match functions across summaries.
func (f FunctionRef) key() string {
	if f.ID != "" {
		return f.ID
	}
	return "name:" + f.Name
}

// Summary is a serializable digest of one analysis.
// It carries enough information to list history and to compare two exports
// without keeping the export itself.
type Summary struct {
	// Source is the path of the analyzed export.
	Source string `json:"source"`

	// Fingerprint is the hex SHA3-256 of the raw (decompressed) export.
	Fingerprint string `json:"fingerprint"`

	// AnalyzedAt is when the analysis ran.
	AnalyzedAt time.Time `json:"analyzedAt"`

	// TotalNodes is the length of the export array.
	TotalNodes int `json:"totalNodes"`

	// TypeCounts maps each node type to its number of nodes.
	TypeCounts map[string]int `json:"typeCounts"`

	// CategoryCounts maps each non-empty function category label to its size.
	CategoryCounts map[string]int `json:"categoryCounts"`

	// Pages lists ui-page names in input order.
	Pages []string `json:"pages"`

	// Endpoints lists "METHOD url" for every http in node in input order.
	Endpoints []string `json:"endpoints"`

	// Functions lists every function node in input order.
	Functions []FunctionRef `json:"functions"`
}

// NewSummary digests an indexed export.
func NewSummary(source string, raw []byte, doc *Document, c *Classifier, now time.Time) *Summary {
	fingerprint := sha3.Sum256(raw)

	s := &Summary{
		Source:         source,
		Fingerprint:    hex.EncodeToString(fingerprint[:]),
		AnalyzedAt:     now,
		TotalNodes:     doc.Len(),
		TypeCounts:     make(map[string]int, doc.TypeCount()),
		CategoryCounts: make(map[string]int),
		Pages:          make([]string, 0, doc.CountOf(TypeUIPage)),
		Endpoints:      make([]string, 0, doc.CountOf(TypeHTTPIn)),
		Functions:      make([]FunctionRef, 0, doc.CountOf(TypeFunction)),
	}

	for _, typ := range doc.Types() {
		s.TypeCounts[typ] = doc.CountOf(typ)
	}

	for _, page := range doc.NodesOf(TypeUIPage) {
		s.Pages = append(s.Pages, page.Text("name"))
	}

	for _, endpoint := range doc.NodesOf(TypeHTTPIn) {
		s.Endpoints = append(s.Endpoints, Endpoint(endpoint))
	}

	for _, fn := range doc.NodesOf(TypeFunction) {
		category := c.ClassifyNode(fn)
		s.CategoryCounts[category.String()]++
		s.Functions = append(s.Functions, FunctionRef{
			ID:       fn.ID(),
			Name:     fn.Name(),
			Category: category,
			Digest:   SourceDigest(fn.String("func", "")),
		})
	}

	return s
}

// TypeCount returns the number of distinct node types.
func (s *Summary) TypeCount() int {
	return len(s.TypeCounts)
}

// Endpoint formats an http in node as "METHOD url".
func Endpoint(n Node) string {
	return strings.ToUpper(n.String("method", "GET")) + " " + n.Text("url")
}

// SourceDigest returns a truncated hex BLAKE3 digest of function source code.
func SourceDigest(code string) string {
	sum := blake3.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])[:digestLength]
}
