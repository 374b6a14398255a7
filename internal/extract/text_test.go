package extract

import (
	"slices"
	"strings"
	"testing"
)

// tokenize collects the token sequence for a text, as the indexer would.
func tokenize(text string) []string {
	var tokens []string
	for tok := range Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// TestText tests visible-text extraction.
func TestText(t *testing.T) {
	t.Parallel()

	t.Run("excludes head, style, and script content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>x</style></head><body>Hello <script>y()</script> World</body></html>`
		text, err := Text(strings.NewReader(html))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := tokenize(text)
		want := []string{"hello", "world"}
		if !slices.Equal(got, want) {
			t.Errorf("tokens = %v, want %v", got, want)
		}
	})

	t.Run("ignores text outside body", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Title Words</title></head><body>content</body></html>after`
		text, err := Text(strings.NewReader(html))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := tokenize(text)
		want := []string{"content"}
		if !slices.Equal(got, want) {
			t.Errorf("tokens = %v, want %v", got, want)
		}
	})

	t.Run("suppresses nested script and style inside body", func(t *testing.T) {
		t.Parallel()

		html := `<body>a<div>b<style>.c{}</style>c</div><script>var d;</script>d</body>`
		text, err := Text(strings.NewReader(html))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := tokenize(text)
		want := []string{"a", "b", "c", "d"}
		if !slices.Equal(got, want) {
			t.Errorf("tokens = %v, want %v", got, want)
		}
	})

	t.Run("tag matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		html := `<BODY>Hello <SCRIPT>x()</SCRIPT>World</BODY>`
		text, err := Text(strings.NewReader(html))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := tokenize(text)
		want := []string{"hello", "world"}
		if !slices.Equal(got, want) {
			t.Errorf("tokens = %v, want %v", got, want)
		}
	})

	t.Run("joins fragments with a single space", func(t *testing.T) {
		t.Parallel()

		html := `<body><p>first</p><p>second</p></body>`
		text, err := Text(strings.NewReader(html))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if text != "first second" {
			t.Errorf("text = %q, want %q", text, "first second")
		}
	})

	t.Run("survives malformed markup", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			html string
		}{
			{"unclosed body", `<body>still visible`},
			{"unmatched end tags", `<body></script></style>visible</body>`},
			{"truncated tag", `<body>visible<a href=`},
			{"bare text", `no tags at all`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				if _, err := Text(strings.NewReader(tt.html)); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			})
		}
	})

	t.Run("empty input yields empty text", func(t *testing.T) {
		t.Parallel()

		text, err := Text(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "" {
			t.Errorf("text = %q, want empty", text)
		}
	})
}
