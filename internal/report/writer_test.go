package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shiromoto/siteindex/internal/model"
)

func sampleReport() *model.CrawlReport {
	return &model.CrawlReport{
		Seed:         "https://docs.example.com/html/sp/sp50.html",
		Domain:       "docs.example.com",
		Prefix:       "/html/sp/",
		PagesIndexed: 42,
		PagesSkipped: map[string]int{
			model.SkipStatus:      3,
			model.SkipContentType: 1,
		},
		URLsSeen:  61,
		TermCount: 1200,
		DocCount:  42,
		Flushes:   2,
		Elapsed:   1500 * time.Millisecond,
		Output:    "search_index_sp.json",
		TopTerms: []model.TermFrequency{
			{Term: "html", Docs: 42},
			{Term: "element", Docs: 30},
		},
	}
}

// TestSimpleWriter tests the human-readable summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders all sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(sampleReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write returned %d, buffer has %d bytes", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"SITEINDEX CRAWL SUMMARY",
			"https://docs.example.com/html/sp/sp50.html",
			"Prefix:  /html/sp/",
			"Pages indexed:  42",
			"SKIPPED URLS",
			"status:",
			"total:",
			"TOP TERMS",
			"html",
			"search_index_sp.json",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("omits empty sections", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()
		report.Prefix = ""
		report.PagesSkipped = nil
		report.TopTerms = nil

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, absent := range []string{"SKIPPED URLS", "TOP TERMS", "Prefix:"} {
			if strings.Contains(out, absent) {
				t.Errorf("output unexpectedly contains %q:\n%s", absent, out)
			}
		}
	})
}

// TestJSONWriter tests the machine-readable summary.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("output parses back into the report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.CrawlReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.PagesIndexed != 42 {
			t.Errorf("pages_indexed = %d, want 42", got.PagesIndexed)
		}
		if got.PagesSkipped[model.SkipStatus] != 3 {
			t.Errorf("pages_skipped[status] = %d, want 3", got.PagesSkipped[model.SkipStatus])
		}
		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("output does not end with a newline")
		}
	})

	t.Run("pretty print indents the output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"seed\"") {
			t.Errorf("output is not indented:\n%s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Summary",
		"## Skipped URLs",
		"## Top Terms",
		"`docs.example.com/html/sp/`",
		"`html`",
		"**total**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(*model.CrawlReport) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests fan-out to multiple destinations.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every destination", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
		if _, err := mw.Write(sampleReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Errorf("destination sizes = %d, %d; want both non-zero", a.Len(), b.Len())
		}
	})

	t.Run("stops on the first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))
		if _, err := mw.Write(sampleReport()); err == nil {
			t.Error("expected error, got nil")
		}
		if buf.Len() != 0 {
			t.Errorf("later writer received %d bytes after error, want 0", buf.Len())
		}
	})
}
