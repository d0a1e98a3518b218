package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the bucket a function node is sorted into by its name.
type Category int

const (
	// CategoryAuth holds login and password handling.
	CategoryAuth Category = iota

	// CategoryDataParsing holds payload parsers.
	CategoryDataParsing

	// CategorySQLGenerator holds functions that build SQL statements.
	CategorySQLGenerator

	// CategoryUIFormatting holds functions that shape data for the dashboard.
	CategoryUIFormatting

	// CategoryConfigSync holds configuration synchronization.
	CategoryConfigSync

	// CategoryOther holds everything else.
	CategoryOther
)

// categoryNames is indexed by Category.
var categoryNames = [...]string{
	CategoryAuth:         "Auth",
	CategoryDataParsing:  "DataParsing",
	CategorySQLGenerator: "SqlGenerator",
	CategoryUIFormatting: "UiFormatting",
	CategoryConfigSync:   "ConfigSync",
	CategoryOther:        "Other",
}

// Categories returns all categories in report emission order.
func Categories() []Category {
	return []Category{
		CategoryAuth,
		CategoryDataParsing,
		CategorySQLGenerator,
		CategoryUIFormatting,
		CategoryConfigSync,
		CategoryOther,
	}
}

// String returns the category label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// MarshalText encodes the category as its label.
func (c Category) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(categoryNames) {
		return nil, fmt.Errorf("invalid category: %d", int(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a category label.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category with the given label.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if categoryNames[c] == s {
			return c, nil
		}
	}
	return CategoryOther, fmt.Errorf("unknown category: %q", s)
}

// rule is one keyword test of the classifier.
// A rule matches when the raw name contains any of exact
// or the lower-cased name contains any of folded.
type rule struct {
	category Category
	exact    []string
	folded   []string
}

// rules are evaluated top to bottom and the first match wins.
// This evaluation order differs from the emission order returned by Categories:
// SQL is tested first, and parse and format both take precedence over login.
// Names that mention manifests, icons or logos are routed to CategoryOther.
var rules = []rule{
	{category: CategorySQLGenerator, exact: []string{"SQL"}, folded: []string{"sql"}},
	{category: CategoryDataParsing, exact: []string{"解析"}, folded: []string{"parse"}},
	{category: CategoryUIFormatting, exact: []string{"格式"}, folded: []string{"format"}},
	{category: CategoryAuth, exact: []string{"登入", "密碼"}, folded: []string{"login"}},
	{category: CategoryConfigSync, exact: []string{"設定", "配置"}, folded: []string{"config"}},
	{category: CategoryOther, folded: []string{"manifest", "icon", "logo"}},
}

// Classifier assigns function nodes to categories by keyword.
// A Classifier is not safe for concurrent use; create one per goroutine.
type Classifier struct {
	lower cases.Caser
}

// NewClassifier creates a Classifier with Unicode-aware lower-casing.
func NewClassifier() *Classifier {
	return &Classifier{lower: cases.Lower(language.Und)}
}

// Classify returns the category for a function name.
func (c *Classifier) Classify(name string) Category {
	lowered := c.lower.String(name)
	for _, r := range rules {
		if containsAny(name, r.exact) || containsAny(lowered, r.folded) {
			return r.category
		}
	}
	return CategoryOther
}

// ClassifyNode classifies a function node by its name.
// A node without a name is classified as Unnamed.
func (c *Classifier) ClassifyNode(n Node) Category {
	return c.Classify(n.Name())
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
