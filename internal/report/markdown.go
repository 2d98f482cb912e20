package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/rfctools/wikihist/internal/model"
)

// MarkdownWriter outputs histories in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Proper table escaping without hand-rolled formatting
//  3. GitHub-flavored markdown output
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the history as Markdown.
func (w *MarkdownWriter) Write(history *model.History) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(fmt.Sprintf("Revision History: %s", history.Slug))
	md.PlainText("")

	info := [][]string{
		{"Revisions", strconv.Itoa(len(history.Revisions))},
	}
	if history.WikiURL != "" {
		info = append(info, []string{"Wiki", history.WikiURL})
	}
	if !history.FetchedAt.IsZero() {
		info = append(info, []string{"Fetched", history.FetchedAt.UTC().Format(model.GitDate)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   info,
	})

	md.H2("Revisions")
	rows := make([][]string, 0, len(history.Revisions))
	for _, rev := range history.Revisions {
		rows = append(rows, []string{
			strconv.FormatInt(rev.Rev, 10),
			rev.Date,
			rev.Author,
			rev.Email,
			rev.Message,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Revision", "Date", "Author", "Email", "Summary"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
