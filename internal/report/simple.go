package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shiromoto/siteindex/internal/model"
)

// SimpleWriter outputs human-readable text summaries of a crawl run.
// Plain text with ASCII formatting works in every terminal and pipes
// cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl summary in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCounts(&sb, report)
	w.writeSkips(&sb, report)
	w.writeTopTerms(&sb, report)

	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                   SITEINDEX CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed:    %s\n", report.Seed))
	sb.WriteString(fmt.Sprintf("Domain:  %s\n", report.Domain))
	if report.Prefix != "" {
		sb.WriteString(fmt.Sprintf("Prefix:  %s\n", report.Prefix))
	}
	sb.WriteString(fmt.Sprintf("Output:  %s\n", report.Output))
	sb.WriteString(fmt.Sprintf("Elapsed: %s\n", report.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("INDEX\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Pages indexed:  %d\n", report.PagesIndexed))
	sb.WriteString(fmt.Sprintf("  URLs seen:      %d\n", report.URLsSeen))
	sb.WriteString(fmt.Sprintf("  Distinct terms: %d\n", report.TermCount))
	sb.WriteString(fmt.Sprintf("  Documents:      %d\n", report.DocCount))
	sb.WriteString(fmt.Sprintf("  Flushes:        %d\n", report.Flushes))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSkips(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.PagesSkipped) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("SKIPPED URLS\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	// Deterministic order for stable output.
	reasons := make([]string, 0, len(report.PagesSkipped))
	for reason := range report.PagesSkipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	for _, reason := range reasons {
		sb.WriteString(fmt.Sprintf("  %-14s %d\n", reason+":", report.PagesSkipped[reason]))
	}
	sb.WriteString(fmt.Sprintf("  %-14s %d\n", "total:", report.TotalSkipped()))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTopTerms(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.TopTerms) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("TOP TERMS\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	for _, tf := range report.TopTerms {
		sb.WriteString(fmt.Sprintf("  %-24s %d docs\n", tf.Term, tf.Docs))
	}
	sb.WriteString("\n")
}
