package report

import (
	"testing"

	"github.com/nao1215/flowreport/internal/model"
)

// TestMessagesFor tests language matching.
func TestMessagesFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang     string
		expected *Messages
	}{
		{lang: "en", expected: &english},
		{lang: "en-GB", expected: &english},
		{lang: "zh-TW", expected: &traditionalChinese},
		{lang: "zh-Hant", expected: &traditionalChinese},
		{lang: "fr", expected: &english},
		{lang: "", expected: &english},
		{lang: "not a tag!", expected: &english},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			t.Parallel()
			if got := MessagesFor(tt.lang); got != tt.expected {
				t.Errorf("MessagesFor(%q) = %s, want %s", tt.lang, got.Tag, tt.expected.Tag)
			}
		})
	}
}

// TestCatalogComplete tests that every translation names every category.
func TestCatalogComplete(t *testing.T) {
	t.Parallel()

	for _, msg := range catalog {
		for _, category := range model.Categories() {
			if _, ok := msg.Categories[category]; !ok {
				t.Errorf("%s: missing heading for %s", msg.Tag, category)
			}
		}
		if msg.Title == "" || msg.CountFormat == "" {
			t.Errorf("%s: missing title or count format", msg.Tag)
		}
	}
}

// TestCategoryNameFallback tests that unknown categories use their label.
func TestCategoryNameFallback(t *testing.T) {
	t.Parallel()

	if got := english.CategoryName(model.Category(42)); got != "Unknown" {
		t.Errorf("expected Unknown, got %q", got)
	}
	if got := traditionalChinese.CategoryName(model.CategoryConfigSync); got != "配置同步" {
		t.Errorf("expected 配置同步, got %q", got)
	}
}
