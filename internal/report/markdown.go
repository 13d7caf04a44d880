package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/hasu-dev/linkscan/internal/model"
)

// MarkdownWriter outputs the scan result as a markdown document with one
// pipe-delimited table of (Source URL, Link, Status Code) rows.
//
// Design decision: we use the nao1215/markdown library for fluent,
// type-safe markdown generation instead of hand-formatting pipes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report. Rows appear in source order, then per-source
// document order. A source with no link records contributes no rows, so
// an empty scan produces a document with just the heading and the table
// header.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Link Checker Results")
	md.PlainText("")

	rows := make([][]string, 0, report.TotalLinks())
	for _, src := range report.Sources {
		for _, link := range src.Links {
			rows = append(rows, []string{
				src.Source,
				link.URL,
				strconv.Itoa(link.Status),
			})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source URL", "Link", "Status Code"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
