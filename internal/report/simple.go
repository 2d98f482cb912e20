package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rfctools/wikihist/internal/model"
)

// SimpleWriter outputs histories in a human-readable text format modeled
// on git log, since the revision dates already use git's date layout.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the history as text.
func (w *SimpleWriter) Write(history *model.History) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "History of %s (%d revisions)\n", history.Slug, len(history.Revisions))
	if history.WikiURL != "" {
		fmt.Fprintf(&b, "Wiki: %s\n", history.WikiURL)
	}

	for _, rev := range history.Revisions {
		fmt.Fprintf(&b, "\nrevision %d\n", rev.Rev)
		fmt.Fprintf(&b, "Author: %s <%s>\n", rev.Author, rev.Email)
		fmt.Fprintf(&b, "Date:   %s\n", rev.Date)
		if rev.Message != "" {
			fmt.Fprintf(&b, "\n    %s\n", rev.Message)
		}
	}

	return io.WriteString(w.output, b.String())
}
