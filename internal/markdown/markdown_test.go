package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"heading", "# Hello", "<h1"},
		{"paragraph", "plain text", "<p>plain text</p>"},
		{"bold", "**bold**", "<strong>bold</strong>"},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
		{"strikethrough", "~~gone~~", "<del>gone</del>"},
		{"raw html passthrough", `<div class="embed">x</div>`, `<div class="embed">`},
		{"fenced code highlighted", "```go\npackage main\n```", "chroma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("output %q should contain %q", got, tt.contains)
			}
		})
	}
}

func TestToHTMLAutoHeadingID(t *testing.T) {
	got, err := ToHTML("## Section Title")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `id="section-title"`) {
		t.Errorf("expected auto heading ID, got %q", got)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"empty", "", 1},
		{"short", "just a few words here", 1},
		{"exactly one minute", strings.Repeat("word ", 200), 1},
		{"rounds up", strings.Repeat("word ", 201), 2},
		{"long form", strings.Repeat("word ", 1000), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingTime(tt.source); got != tt.want {
				t.Errorf("ReadingTime = %d, want %d", got, tt.want)
			}
		})
	}
}
