package model

import (
	"encoding/json"
	"testing"
)

// TestCategoryString tests the String method of Category.
func TestCategoryString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		category Category
		expected string
	}{
		{CategoryAuth, "Auth"},
		{CategoryDataParsing, "DataParsing"},
		{CategorySQLGenerator, "SqlGenerator"},
		{CategoryUIFormatting, "UiFormatting"},
		{CategoryConfigSync, "ConfigSync"},
		{CategoryOther, "Other"},
		{Category(999), "Unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.category.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.category.String(), tc.expected)
			}
		})
	}
}

// TestCategoriesEmissionOrder verifies the order categories are written in the report.
func TestCategoriesEmissionOrder(t *testing.T) {
	t.Parallel()

	expected := []Category{
		CategoryAuth,
		CategoryDataParsing,
		CategorySQLGenerator,
		CategoryUIFormatting,
		CategoryConfigSync,
		CategoryOther,
	}

	got := Categories()
	if len(got) != len(expected) {
		t.Fatalf("expected %d categories, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}

// TestClassifierClassify tests keyword classification of function names.
func TestClassifierClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected Category
	}{
		// SQL is tested before every other rule
		{"SQL with CJK suffix", "SQL 匯出", CategorySQLGenerator},
		{"lower-case sql", "build sql insert", CategorySQLGenerator},
		{"mixed-case Sql", "MySqlWriter", CategorySQLGenerator},
		{"sql beats login", "login sql query", CategorySQLGenerator},

		// Parse precedes config and login
		{"parse and config in CJK", "解析設定", CategoryDataParsing},
		{"Parse upper-case", "Parse GPS payload", CategoryDataParsing},
		{"parse beats login", "parse login response", CategoryDataParsing},

		// Format precedes login
		{"format keyword", "Format chart data", CategoryUIFormatting},
		{"format in CJK", "時間格式", CategoryUIFormatting},
		{"format beats login", "format login page", CategoryUIFormatting},

		// Auth
		{"login keyword", "Check Login", CategoryAuth},
		{"password in CJK", "修改密碼", CategoryAuth},
		{"login in CJK", "使用者登入", CategoryAuth},

		// Config
		{"config keyword", "Sync Config", CategoryConfigSync},
		{"settings in CJK", "儲存設定", CategoryConfigSync},
		{"configuration in CJK", "配置同步", CategoryConfigSync},
		{"login beats config", "login config", CategoryAuth},

		// Other
		{"manifest routes to other", "Build manifest", CategoryOther},
		{"icon routes to other", "Icon loader", CategoryOther},
		{"logo routes to other", "LOGO", CategoryOther},
		{"no keyword", "Compute average", CategoryOther},
		{"unnamed", Unnamed, CategoryOther},
		{"empty", "", CategoryOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := NewClassifier()
			if got := c.Classify(tc.input); got != tc.expected {
				t.Errorf("Classify(%q) = %s, expected %s", tc.input, got, tc.expected)
			}
		})
	}
}

// TestClassifierClassifyNode tests classification through the node accessor.
func TestClassifierClassifyNode(t *testing.T) {
	t.Parallel()

	t.Run("node without name is other", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier()
		n := Node{"type": TypeFunction, "id": "f1"}
		if got := c.ClassifyNode(n); got != CategoryOther {
			t.Errorf("expected Other, got %s", got)
		}
	})

	t.Run("node with null name is other", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier()
		n := Node{"type": TypeFunction, "name": nil}
		if got := c.ClassifyNode(n); got != CategoryOther {
			t.Errorf("expected Other, got %s", got)
		}
	})

	t.Run("node name is used", func(t *testing.T) {
		t.Parallel()

		c := NewClassifier()
		n := Node{"type": TypeFunction, "name": "SQL 匯出"}
		if got := c.ClassifyNode(n); got != CategorySQLGenerator {
			t.Errorf("expected SqlGenerator, got %s", got)
		}
	})
}

// TestCategoryText tests text marshaling used by JSON output and history.
func TestCategoryText(t *testing.T) {
	t.Parallel()

	t.Run("encodes as label in JSON", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(map[string]Category{"c": CategoryConfigSync})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(b) != `{"c":"ConfigSync"}` {
			t.Errorf("unexpected JSON: %s", b)
		}
	})

	t.Run("decodes label", func(t *testing.T) {
		t.Parallel()

		var c Category
		if err := json.Unmarshal([]byte(`"SqlGenerator"`), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != CategorySQLGenerator {
			t.Errorf("expected SqlGenerator, got %s", c)
		}
	})

	t.Run("rejects unknown label", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseCategory("Nope"); err == nil {
			t.Error("expected error for unknown label")
		}
	})

	t.Run("rejects invalid value", func(t *testing.T) {
		t.Parallel()

		if _, err := Category(42).MarshalText(); err == nil {
			t.Error("expected error for invalid category")
		}
	})
}
