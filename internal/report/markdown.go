package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/shiromoto/siteindex/internal/model"
)

// MarkdownWriter outputs crawl summaries as GitHub-flavored Markdown,
// suitable for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation instead of string templates.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSkips(md, report)
	w.writeTopTerms(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Crawl Summary")
	md.PlainText("")

	scopeRow := []string{"Scope", "`" + report.Domain + "`"}
	if report.Prefix != "" {
		scopeRow[1] = "`" + report.Domain + report.Prefix + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + report.Seed + "`"},
			scopeRow,
			{"Pages indexed", strconv.Itoa(report.PagesIndexed)},
			{"URLs seen", strconv.Itoa(report.URLsSeen)},
			{"Distinct terms", strconv.Itoa(report.TermCount)},
			{"Documents", strconv.Itoa(report.DocCount)},
			{"Flushes", strconv.Itoa(report.Flushes)},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Output", "`" + report.Output + "`"},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkips(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.PagesSkipped) == 0 {
		return
	}
	md.H2("Skipped URLs")
	md.PlainText("")

	reasons := make([]string, 0, len(report.PagesSkipped))
	for reason := range report.PagesSkipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	rows := make([][]string, 0, len(reasons)+1)
	for _, reason := range reasons {
		rows = append(rows, []string{reason, strconv.Itoa(report.PagesSkipped[reason])})
	}
	rows = append(rows, []string{"**total**", "**" + strconv.Itoa(report.TotalSkipped()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Reason", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeTopTerms(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.TopTerms) == 0 {
		return
	}
	md.H2("Top Terms")
	md.PlainText("")

	rows := make([][]string, 0, len(report.TopTerms))
	for _, tf := range report.TopTerms {
		rows = append(rows, []string{"`" + tf.Term + "`", strconv.Itoa(tf.Docs)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Term", "Documents"},
		Rows:   rows,
	})
}
